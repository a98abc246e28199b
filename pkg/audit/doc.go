// Package audit provides audit logging for telehive operations.
//
// This package implements structured audit logging for security-relevant
// operations: account lifecycle changes, module catalog and link changes
// (trust elevation in particular), and the daemon starting or stopping
// an account's client.
//
// # Event Types
//
//   - AccountEvent: account create, delete, enable, disable
//   - ModuleEvent: module register, link, unlink, trust, revoke-trust,
//     configure, activate, deactivate
//   - RunEvent: daemon start and stop of an account's client
//
// # Usage
//
//	audit.Log(audit.ModuleEvent{
//		AccountName: "alice",
//		ModuleName:  "greeter",
//		Operation:   "trust",
//		Success:     true,
//	})
//
// Events are written to stdout in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, persisted to a messages table. Auditing is
// on by default and can be disabled with TELEHIVE_AUDIT_ENABLED=false.
package audit
