package protocol

import (
	"context"
	"errors"
	"time"
)

// ErrEntityNotFound is returned by Session.InputEntity for any entity the
// session has not cached. Callers fall back to a network resolution.
var ErrEntityNotFound = errors.New("entity not found in session cache")

// UpdateState is the four-part bookmark marking how far an account has
// consumed the service's event stream. Losing it forces the client to
// either miss events or do a full resync.
type UpdateState struct {
	Pts  int
	Qts  int
	Date time.Time
	Seq  int
}

// User is the minimal shape of an identity the client library feeds to
// ProcessEntities after authentication.
type User struct {
	ID         int64
	AccessHash int64
	Self       bool
}

// InputPeer is the routing handle for addressing an entity in API calls.
type InputPeer struct {
	UserID     int64
	AccessHash int64
}

// EntityPayload is what the client library hands to ProcessEntities:
// whatever users the last server response mentioned.
type EntityPayload struct {
	Users []User
}

// Session is the persistence contract the external client library
// requires. The library calls Load once at startup, Save whenever
// session state changes, and Delete on logout; everything else is
// consulted during normal operation.
//
// Implementations must be safe to use from a single account task that is
// scheduled cooperatively alongside other accounts' tasks; they are
// never shared between accounts.
type Session interface {
	// Load materializes persisted state. A never-authenticated account
	// loads an empty session; that is not an error.
	Load(ctx context.Context) error

	// Save persists the current state. Called repeatedly; must be an
	// upsert.
	Save(ctx context.Context) error

	// Delete discards persisted and in-memory state. After Delete the
	// session behaves like a never-authenticated account.
	Delete(ctx context.Context) error

	// Close releases any resources. It does not persist anything.
	Close() error

	// SetDC / DC are in-memory routing accessors, flushed on the next
	// Save.
	SetDC(id int, address string, port int)
	DC() (id int, address string, port int)

	// AuthKey returns nil when the account needs a fresh login.
	AuthKey() []byte
	SetAuthKey(key []byte)

	// UpdateState reports false when no cursor has been stored yet.
	UpdateState() (UpdateState, bool)
	SetUpdateState(state UpdateState)

	TakeoutID() (int64, bool)
	SetTakeoutID(id *int64)

	// ProcessEntities lets the session cache identities from a server
	// payload. Only "self" is guaranteed to be retained.
	ProcessEntities(payload EntityPayload)

	// InputEntity resolves a cached entity without network I/O, or
	// returns ErrEntityNotFound.
	InputEntity(userID int64) (InputPeer, error)

	// Self resolves this account's own identity, cached by
	// ProcessEntities after authentication.
	Self() (InputPeer, error)

	// CacheFile / File form the media-blob cache hook. Implementations
	// may be always-miss stubs.
	CacheFile(md5Digest []byte, fileType int, data []byte) error
	File(md5Digest []byte, fileType int) ([]byte, bool)
}
