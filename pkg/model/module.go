package model

import "time"

// Module is a plugin's catalog entry, shared across all accounts that
// link to it. Description and version are derived from the module's
// manifest at registration time.
type Module struct {
	ModuleID    int64  `gorm:"column:module_id;primaryKey"`
	ModuleName  string `gorm:"column:module_name;unique;not null"`
	ModulePath  string `gorm:"column:module_path;not null"`
	Description string `gorm:"column:description"`
	Version     string `gorm:"column:version"`

	AddedAt time.Time `gorm:"column:added_at;autoCreateTime"`
}

func (Module) TableName() string {
	return "modules"
}
