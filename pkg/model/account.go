package model

import "time"

// Account is one managed remote identity with its own credentials,
// session and module set. API credentials and proxy credentials are
// encrypted at rest; RemoteIdentityID stays NULL until the first
// successful authentication reveals it.
type Account struct {
	AccountID        int64  `gorm:"column:account_id;primaryKey"`
	AccountName      string `gorm:"column:account_name;unique;not null"`
	RemoteIdentityID *int64 `gorm:"column:remote_identity_id;unique"`

	APIIDEnc   []byte `gorm:"column:api_id_enc;type:bytea;not null"`
	APIHashEnc []byte `gorm:"column:api_hash_enc;type:bytea;not null"`

	IsEnabled bool   `gorm:"column:is_enabled;not null;default:true"`
	LangCode  string `gorm:"column:lang_code;not null;default:en"`

	DeviceModel   string `gorm:"column:device_model"`
	SystemVersion string `gorm:"column:system_version"`
	AppVersion    string `gorm:"column:app_version"`

	ProxyType    *string `gorm:"column:proxy_type"`
	ProxyHost    *string `gorm:"column:proxy_host"`
	ProxyPort    *int    `gorm:"column:proxy_port"`
	ProxyUserEnc []byte  `gorm:"column:proxy_user_enc;type:bytea"`
	ProxyPassEnc []byte  `gorm:"column:proxy_pass_enc;type:bytea"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}
