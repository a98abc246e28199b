package sandbox

import (
	"context"
	"fmt"
	"reflect"

	"github.com/telehive/telehive/pkg/protocol"
)

// PermissionError reports an attempt to reach a capability-restricted
// method through a restricted handle.
type PermissionError struct {
	Method string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("access to %q is not permitted", e.Method)
}

// deniedMethods is the closed set of client methods untrusted plugin
// code must never reach: session access, transport control, raw RPC
// dispatch, logout and session serialization.
var deniedMethods = map[string]bool{
	"Session":     true,
	"Connect":     true,
	"Disconnect":  true,
	"Reconnect":   true,
	"Invoke":      true,
	"LogOut":      true,
	"SaveSession": true,
}

// Restricted wraps a live client handle for untrusted plugin code.
// Safe methods forward to the real handle unchanged; denied methods
// fail with a PermissionError before touching it. The wrapped handle
// is unexported and the type carries no setters, so plugin code cannot
// swap it out or dig through to the session underneath.
type Restricted struct {
	client protocol.Client
}

var _ protocol.Client = (*Restricted)(nil)

// NewRestricted wraps client. It verifies by reflection that every
// name on the deny-list still exists on the wrapped handle, so a
// renamed dangerous method fails loudly at construction instead of
// silently becoming reachable.
func NewRestricted(client protocol.Client) (*Restricted, error) {
	typ := reflect.TypeOf(client)
	for name := range deniedMethods {
		if _, ok := typ.MethodByName(name); !ok {
			return nil, fmt.Errorf("denied method %q does not exist on %s", name, typ)
		}
	}
	return &Restricted{client: client}, nil
}

func (r *Restricted) Self(ctx context.Context) (protocol.User, error) {
	return r.client.Self(ctx)
}

func (r *Restricted) ResolveEntity(ctx context.Context, name string) (protocol.InputPeer, error) {
	return r.client.ResolveEntity(ctx, name)
}

func (r *Restricted) SendMessage(ctx context.Context, peer protocol.InputPeer, text string) error {
	return r.client.SendMessage(ctx, peer, text)
}

func (r *Restricted) AddHandler(kind string, h protocol.Handler) {
	r.client.AddHandler(kind, h)
}

func (r *Restricted) IsAuthorized(ctx context.Context) (bool, error) {
	return r.client.IsAuthorized(ctx)
}

func (r *Restricted) Invoke(context.Context, protocol.Request) (any, error) {
	return nil, &PermissionError{Method: "Invoke"}
}

// Session always returns nil. The interface forces a return value and
// nil is the only one that cannot leak key material; callers that need
// the session must be trusted and hold the raw handle.
func (r *Restricted) Session() protocol.Session {
	return nil
}

func (r *Restricted) Connect(context.Context) error {
	return &PermissionError{Method: "Connect"}
}

func (r *Restricted) Disconnect() error {
	return &PermissionError{Method: "Disconnect"}
}

func (r *Restricted) Reconnect(context.Context) error {
	return &PermissionError{Method: "Reconnect"}
}

func (r *Restricted) LogOut(context.Context) error {
	return &PermissionError{Method: "LogOut"}
}

func (r *Restricted) SaveSession(context.Context) error {
	return &PermissionError{Method: "SaveSession"}
}

// Call dispatches a client method by name, for plugin code that binds
// commands to method names at runtime. Denied names fail exactly like
// their typed counterparts and never reach the real handle.
func (r *Restricted) Call(ctx context.Context, name string, args ...any) ([]any, error) {
	if deniedMethods[name] {
		return nil, &PermissionError{Method: name}
	}

	method := reflect.ValueOf(r.client).MethodByName(name)
	if !method.IsValid() {
		return nil, fmt.Errorf("client has no method %q", name)
	}

	in := make([]reflect.Value, 0, len(args)+1)
	if takesContext(method.Type()) {
		in = append(in, reflect.ValueOf(ctx))
	}
	for _, arg := range args {
		in = append(in, reflect.ValueOf(arg))
	}
	if method.Type().NumIn() != len(in) {
		return nil, fmt.Errorf("method %q wants %d arguments, got %d", name, method.Type().NumIn(), len(in))
	}

	out := method.Call(in)
	results := make([]any, 0, len(out))
	for _, v := range out {
		results = append(results, v.Interface())
	}
	return results, nil
}

func takesContext(typ reflect.Type) bool {
	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()
	return typ.NumIn() > 0 && typ.In(0) == ctxType
}
