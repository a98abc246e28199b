package store

import "errors"

// ErrAccountNotFound is returned when an account doesn't exist
var ErrAccountNotFound = errors.New("account not found")

// ErrAccountExists is returned on a duplicate account name
var ErrAccountExists = errors.New("account already exists")

// Proxy describes an account's outbound proxy. Username and password are
// plaintext here; the store encrypts them before they reach a row.
type Proxy struct {
	Type     string
	Host     string
	Port     int
	Username string
	Password string
}

// Account is the decrypted view of one managed identity.
type Account struct {
	ID               int64
	Name             string
	RemoteIdentityID *int64

	APIID   string
	APIHash string

	Enabled  bool
	LangCode string

	DeviceModel   string
	SystemVersion string
	AppVersion    string

	Proxy *Proxy
}

// NewAccount carries the operator-supplied fields for account creation.
type NewAccount struct {
	Name    string
	APIID   string
	APIHash string

	LangCode      string
	DeviceModel   string
	SystemVersion string
	AppVersion    string

	Proxy *Proxy
}

// AccountsStore abstracts account storage operations
type AccountsStore interface {
	// CreateAccount creates a new account, encrypting its API
	// credentials and proxy credentials. Returns ErrAccountExists on a
	// duplicate name.
	CreateAccount(account NewAccount) (int64, error)

	// Account fetches an account by id with credentials decrypted.
	Account(id int64) (*Account, error)

	// AccountByName fetches an account by its unique name.
	AccountByName(name string) (*Account, error)

	// ListAccounts returns all accounts, credentials decrypted.
	ListAccounts() ([]Account, error)

	// SetEnabled toggles whether the account's task is started.
	SetEnabled(id int64, enabled bool) error

	// SetRemoteIdentity records the remote identity learned on the first
	// successful authentication.
	SetRemoteIdentity(id int64, remoteID int64) error

	// UpdateFingerprint replaces the device/client fingerprint fields.
	UpdateFingerprint(id int64, deviceModel, systemVersion, appVersion string) error

	// UpdateProxy replaces the proxy descriptor; nil clears it.
	UpdateProxy(id int64, proxy *Proxy) error

	// SetLangCode changes the account's language code.
	SetLangCode(id int64, langCode string) error

	// DeleteAccount removes the account; its session and module links
	// cascade with it.
	DeleteAccount(id int64) error
}
