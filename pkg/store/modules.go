package store

import "errors"

// ErrModuleNotFound is returned when a module isn't in the catalog
var ErrModuleNotFound = errors.New("module not found")

// ErrLinkNotFound is returned when an (account, module) link doesn't exist
var ErrLinkNotFound = errors.New("module is not linked to account")

// Module is a plugin's catalog entry, shared across accounts.
type Module struct {
	ID          int64
	Name        string
	Path        string
	Description string
	Version     string
}

// Link is one (account, module) association.
type Link struct {
	AccountID int64
	ModuleID  int64
	Active    bool
	Trusted   bool
	Config    map[string]any
}

// ActiveModule is a catalog entry joined with its per-account link,
// as consumed at account-startup time.
type ActiveModule struct {
	Module
	Trusted bool
	Config  map[string]any
}

// ModulesStore abstracts the plugin catalog and the per-account links.
// Every operation is a single transactional statement scoped to one
// account/module pair, so concurrently-scheduled account tasks never
// contend.
type ModulesStore interface {
	// RegisterModule inserts or updates a module's catalog entry by its
	// unique name and returns the module id.
	RegisterModule(name, path, description, version string) (int64, error)

	// Module fetches a catalog entry by name.
	Module(name string) (*Module, error)

	// ListModules returns the whole catalog ordered by name.
	ListModules() ([]Module, error)

	// DeleteModule removes a catalog entry; all links to it cascade.
	DeleteModule(name string) error

	// LinkModule associates a module with an account. Idempotent:
	// re-linking an already-linked module updates the existing row's
	// active flag and configuration instead of duplicating it. The
	// trust flag is never touched here.
	LinkModule(accountID, moduleID int64, config map[string]any, active bool) error

	// UnlinkModule removes the link row only, never the shared catalog
	// entry. Returns ErrLinkNotFound when no link exists.
	UnlinkModule(accountID, moduleID int64) error

	// ModuleLink fetches one link row.
	ModuleLink(accountID, moduleID int64) (*Link, error)

	// SetActive toggles a link's active flag.
	SetActive(accountID, moduleID int64, active bool) error

	// SetTrust elevates or revokes the per-account trust flag. This is
	// the only path by which a module may be granted the raw client
	// handle.
	SetTrust(accountID, moduleID int64, trusted bool) error

	// SetConfigKey writes one key of the link's configuration blob. The
	// caller validates the value's type against the module manifest
	// before calling.
	SetConfigKey(accountID, moduleID int64, key string, value any) error

	// ActiveModules returns the catalog entries linked active to the
	// account, joined with their trust flag and configuration.
	ActiveModules(accountID int64) ([]ActiveModule, error)
}
