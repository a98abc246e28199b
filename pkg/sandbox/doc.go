// Package sandbox restricts what untrusted plugin code can do with a
// live client handle. Trusted plugins get the raw handle; everything
// else goes through a Restricted wrapper whose deny-list blocks session
// access, transport control, raw RPC dispatch and logout.
package sandbox
