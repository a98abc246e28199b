package model

import "time"

// AccountModule links a module to an account. At most one row per
// (account, module) pair, enforced by a uniqueness constraint. IsTrusted
// defaults to false and is only ever elevated by an explicit operator
// action; it is the sole gate for handing a module the raw client handle.
type AccountModule struct {
	LinkID    int64 `gorm:"column:link_id;primaryKey"`
	AccountID int64 `gorm:"column:account_id;not null;uniqueIndex:idx_account_module"`
	ModuleID  int64 `gorm:"column:module_id;not null;uniqueIndex:idx_account_module"`

	IsActive  bool `gorm:"column:is_active;not null;default:true"`
	IsTrusted bool `gorm:"column:is_trusted;not null;default:false"`

	// ConfigurationJSON is the per-account configuration blob, a JSON
	// object whose keys follow the module manifest's config schema.
	ConfigurationJSON []byte `gorm:"column:configuration_json;type:jsonb"`

	ActivatedAt time.Time `gorm:"column:activated_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AccountModule) TableName() string {
	return "account_modules"
}
