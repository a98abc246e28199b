package protocol

import "context"

// Request is an opaque low-level RPC request understood by the client
// library. Only trusted code may dispatch these directly.
type Request interface {
	RequestName() string
}

// Event is a protocol event delivered to a registered handler.
type Event struct {
	Kind    string
	Peer    InputPeer
	Message string
}

// Handler reacts to protocol events. Errors are logged by the client
// library, not propagated to the sender.
type Handler func(ctx context.Context, ev Event) error

// Client is the live, already-authenticated handle the external library
// returns once a session is connected. Plugins receive either this
// interface directly (trusted) or a capability-restricted wrapper over
// it (untrusted, the default).
//
// The deny-list in pkg/sandbox is defined against this surface; any
// method added here that can hijack the session or take over the account
// must be added to that list as well.
type Client interface {
	// Self reports the authenticated account's own identity.
	Self(ctx context.Context) (User, error)

	// ResolveEntity resolves a username or address to a routing handle,
	// consulting the session cache before the network.
	ResolveEntity(ctx context.Context, name string) (InputPeer, error)

	// SendMessage sends a text message to a peer.
	SendMessage(ctx context.Context, peer InputPeer, text string) error

	// AddHandler registers an event handler for the given event kind.
	AddHandler(kind string, h Handler)

	// IsAuthorized reports whether the session completed a login.
	IsAuthorized(ctx context.Context) (bool, error)

	// Invoke dispatches a raw RPC request. Capability-restricted for
	// untrusted plugins.
	Invoke(ctx context.Context, req Request) (any, error)

	// Session exposes the underlying session store. Capability-restricted.
	Session() Session

	// Connect, Disconnect and Reconnect control the transport.
	// Capability-restricted.
	Connect(ctx context.Context) error
	Disconnect() error
	Reconnect(ctx context.Context) error

	// LogOut terminates the authorization and deletes the session.
	// Capability-restricted.
	LogOut(ctx context.Context) error

	// SaveSession forces a session flush, serializing key material.
	// Capability-restricted.
	SaveSession(ctx context.Context) error
}

// DialOptions carries the per-account settings the library needs to
// establish a connection.
type DialOptions struct {
	APIID   string
	APIHash string

	DeviceModel   string
	SystemVersion string
	AppVersion    string
	LangCode      string

	Proxy *ProxyOptions
}

// ProxyOptions describes an outbound proxy for one account's transport.
type ProxyOptions struct {
	Type     string
	Host     string
	Port     int
	Username string
	Password string
}

// Dialer connects a session to the service and returns the live handle.
// Implemented by the external client library; consumed by the account
// runner.
type Dialer interface {
	Dial(ctx context.Context, session Session, opts DialOptions) (Client, error)
}
