// Package store provides storage abstractions for telehive.
//
// This package defines interfaces for database operations, decoupling
// the account runner and the CLI from the specific database
// implementation and enabling testing with mocks.
//
// # Available Stores
//
//   - AccountsStore: managed identities and their encrypted credentials
//   - ModulesStore: the plugin catalog and per-account module links
//
// # Usage
//
//	modules := gorm.NewModulesStore(db)
//	active, err := modules.ActiveModules(accountID)
//	if err != nil {
//	    // a failed registry read fails this account's startup only
//	}
//
// Sentinel errors (ErrAccountNotFound, ErrModuleNotFound, ErrLinkNotFound,
// ErrAccountExists) are matched with errors.Is.
package store
