package protocol

import (
	"fmt"
	"sync"
)

var (
	dialerMu sync.RWMutex
	dialer   Dialer
)

// RegisterDialer installs the client library's dialer. Exactly one
// transport is linked into a binary; registering a second one panics.
func RegisterDialer(d Dialer) {
	dialerMu.Lock()
	defer dialerMu.Unlock()
	if dialer != nil {
		panic("protocol: RegisterDialer called twice")
	}
	dialer = d
}

// ActiveDialer returns the registered dialer.
func ActiveDialer() (Dialer, error) {
	dialerMu.RLock()
	defer dialerMu.RUnlock()
	if dialer == nil {
		return nil, fmt.Errorf("no protocol transport is linked into this binary")
	}
	return dialer, nil
}
