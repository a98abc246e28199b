// Package session implements the protocol client's session contract
// against the telehive database.
//
// StoreSession persists one account's connection state: datacenter
// routing, the auth key (encrypted at rest via pkg/secrets) and the
// update-stream cursor. The external client library drives it through
// the protocol.Session interface; telehive code only constructs it and
// hands it over.
package session
