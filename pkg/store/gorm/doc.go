// Package gorm implements the store interfaces using GORM.
//
// This package contains the PostgreSQL-backed implementations of
// store.AccountsStore and store.ModulesStore. Sensitive account columns
// go through the process secrets.Cipher on the way in and out; writes
// that must be idempotent use INSERT ... ON CONFLICT upserts.
package gorm
