// Package protocol declares the interfaces telehive shares with the
// external real-time protocol client library.
//
// The library owns the transport, the handshake and the RPC schema;
// telehive only supplies a Session implementation for it to persist
// state through, and consumes the live Client handle it returns. Both
// surfaces are expressed here as explicit interfaces so the rest of the
// system never depends on the library's concrete types.
//
// The Session interface mirrors the library's session contract exactly:
// the library calls these methods at points outside telehive's control,
// so parameter and return shapes must not drift.
package protocol
