package sandbox

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telehive/telehive/pkg/protocol"
)

// fakeClient records which methods were actually reached.
type fakeClient struct {
	calls []string
	self  protocol.User
}

func (f *fakeClient) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Self(context.Context) (protocol.User, error) {
	f.record("Self")
	return f.self, nil
}

func (f *fakeClient) ResolveEntity(_ context.Context, name string) (protocol.InputPeer, error) {
	f.record("ResolveEntity")
	return protocol.InputPeer{UserID: 42}, nil
}

func (f *fakeClient) SendMessage(_ context.Context, _ protocol.InputPeer, _ string) error {
	f.record("SendMessage")
	return nil
}

func (f *fakeClient) AddHandler(kind string, h protocol.Handler) {
	f.record("AddHandler")
}

func (f *fakeClient) IsAuthorized(context.Context) (bool, error) {
	f.record("IsAuthorized")
	return true, nil
}

func (f *fakeClient) Invoke(context.Context, protocol.Request) (any, error) {
	f.record("Invoke")
	return nil, nil
}

func (f *fakeClient) Session() protocol.Session {
	f.record("Session")
	return nil
}

func (f *fakeClient) Connect(context.Context) error {
	f.record("Connect")
	return nil
}

func (f *fakeClient) Disconnect() error {
	f.record("Disconnect")
	return nil
}

func (f *fakeClient) Reconnect(context.Context) error {
	f.record("Reconnect")
	return nil
}

func (f *fakeClient) LogOut(context.Context) error {
	f.record("LogOut")
	return nil
}

func (f *fakeClient) SaveSession(context.Context) error {
	f.record("SaveSession")
	return nil
}

func TestDeniedMethodsNeverReachTheHandle(t *testing.T) {
	fake := &fakeClient{}
	restricted, err := NewRestricted(fake)
	require.NoError(t, err)

	ctx := context.Background()
	var permErr *PermissionError

	_, err = restricted.Invoke(ctx, nil)
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, "Invoke", permErr.Method)

	require.ErrorAs(t, restricted.Connect(ctx), &permErr)
	require.ErrorAs(t, restricted.Disconnect(), &permErr)
	require.ErrorAs(t, restricted.Reconnect(ctx), &permErr)
	require.ErrorAs(t, restricted.LogOut(ctx), &permErr)
	require.ErrorAs(t, restricted.SaveSession(ctx), &permErr)
	assert.Nil(t, restricted.Session())

	assert.Empty(t, fake.calls, "denied methods must never reach the real handle")
}

func TestSafeMethodsForwardTransparently(t *testing.T) {
	fake := &fakeClient{self: protocol.User{ID: 7, Self: true}}
	restricted, err := NewRestricted(fake)
	require.NoError(t, err)

	ctx := context.Background()

	self, err := restricted.Self(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), self.ID)

	peer, err := restricted.ResolveEntity(ctx, "someone")
	require.NoError(t, err)
	assert.Equal(t, int64(42), peer.UserID)

	require.NoError(t, restricted.SendMessage(ctx, peer, "hello"))

	authorized, err := restricted.IsAuthorized(ctx)
	require.NoError(t, err)
	assert.True(t, authorized)

	restricted.AddHandler("message", func(context.Context, protocol.Event) error { return nil })

	assert.Equal(t,
		[]string{"Self", "ResolveEntity", "SendMessage", "IsAuthorized", "AddHandler"},
		fake.calls)
}

func TestCallDispatchesByName(t *testing.T) {
	fake := &fakeClient{self: protocol.User{ID: 7}}
	restricted, err := NewRestricted(fake)
	require.NoError(t, err)

	ctx := context.Background()

	results, err := restricted.Call(ctx, "Self")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, protocol.User{ID: 7}, results[0])

	var permErr *PermissionError
	for name := range deniedMethods {
		_, err := restricted.Call(ctx, name)
		require.ErrorAs(t, err, &permErr, name)
	}
	assert.NotContains(t, fake.calls, "LogOut")

	_, err = restricted.Call(ctx, "NoSuchMethod")
	assert.Error(t, err)

	_, err = restricted.Call(ctx, "SendMessage", protocol.InputPeer{})
	assert.Error(t, err, "argument count mismatch must be rejected")
}

func TestRestrictedSatisfiesClient(t *testing.T) {
	fake := &fakeClient{}
	restricted, err := NewRestricted(fake)
	require.NoError(t, err)

	var _ protocol.Client = restricted
}
