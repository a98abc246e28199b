// Package model defines the database models for telehive.
//
// This package contains GORM models that map to the telehive PostgreSQL
// schema. Sensitive columns (auth keys, API credentials, proxy
// credentials) hold secrets.Cipher tokens, never plaintext.
//
// # Core Models
//
//   - Account: one managed remote identity with encrypted API credentials
//   - Session: per-account protocol session (routing, encrypted auth key,
//     update cursor); exactly one row per account
//   - Module: a plugin's shared catalog entry
//   - AccountModule: the per-account link carrying the active flag, the
//     trust flag and the configuration blob
//
// # Database Schema
//
//   - accounts: identities and encrypted credentials
//   - sessions: 1:1 with accounts, cascade-deleted
//   - modules: plugin catalog
//   - account_modules: (account, module) links, unique per pair
package model
