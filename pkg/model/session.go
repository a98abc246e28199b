package model

import "time"

// Session is the persisted protocol session for one account: datacenter
// routing, the encrypted auth key and the update-stream cursor. Exactly
// one row per account; deleted together with its account.
type Session struct {
	SessionID int64 `gorm:"column:session_id;primaryKey"`
	AccountID int64 `gorm:"column:account_id;unique;not null"`

	DCID          int    `gorm:"column:dc_id;not null"`
	ServerAddress string `gorm:"column:server_address"`
	Port          int    `gorm:"column:port"`

	// AuthKeyEnc is the secrets.Cipher token of the raw auth key bytes.
	// NULL means the account has never completed a login.
	AuthKeyEnc []byte `gorm:"column:auth_key_enc;type:bytea"`

	// Update-stream cursor. Date is a Unix epoch value; the store
	// normalizes whatever time representation the client library hands
	// it before the row is written.
	Pts  *int   `gorm:"column:pts"`
	Qts  *int   `gorm:"column:qts"`
	Date *int64 `gorm:"column:date"`
	Seq  *int   `gorm:"column:seq"`

	TakeoutID *int64 `gorm:"column:takeout_id"`

	LastUsedAt time.Time `gorm:"column:last_used_at;autoUpdateTime"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
