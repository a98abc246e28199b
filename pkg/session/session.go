package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/model"
	"github.com/telehive/telehive/pkg/protocol"
	"github.com/telehive/telehive/pkg/secrets"
)

const defaultPort = 443

// Ensure StoreSession implements the client library's session contract
var _ protocol.Session = (*StoreSession)(nil)

// StoreSession implements protocol.Session against the sessions table.
// The auth key is encrypted with the process data key before it is
// written and decrypted on load; it never leaves this struct except
// through AuthKey, which the client library alone consumes.
//
// A StoreSession belongs to exactly one account task. It holds no locks:
// each account owns its single row, and tasks for different accounts
// touch disjoint rows.
type StoreSession struct {
	db        *gorm.DB
	cipher    secrets.Cipher
	accountID int64

	authKey       []byte
	dcID          int
	serverAddress string
	port          int
	takeoutID     *int64

	state    protocol.UpdateState
	hasState bool

	self     *protocol.InputPeer
	entities map[int64]protocol.InputPeer
}

// New builds a session store for one account. The database and cipher
// are shared process-wide; the state is per-account.
func New(db *gorm.DB, cipher secrets.Cipher, accountID int64) *StoreSession {
	return &StoreSession{
		db:        db,
		cipher:    cipher,
		accountID: accountID,
		port:      defaultPort,
		entities:  map[int64]protocol.InputPeer{},
	}
}

// AccountID reports which account this session belongs to.
func (s *StoreSession) AccountID() int64 { return s.accountID }

func (s *StoreSession) aad() []byte {
	return []byte("session:" + strconv.FormatInt(s.accountID, 10))
}

// Load reads the account's session row. A missing row is the expected
// path for a brand-new account and leaves the session empty. A row whose
// auth key fails to decrypt surfaces a *secrets.DecryptionError; the
// caller must treat the account as requiring re-authentication.
func (s *StoreSession) Load(ctx context.Context) error {
	var row model.Session
	err := s.db.WithContext(ctx).Where("account_id = ?", s.accountID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session for account %d: %w", s.accountID, err)
	}

	s.dcID = row.DCID
	s.serverAddress = row.ServerAddress
	s.port = row.Port
	if s.port == 0 {
		s.port = defaultPort
	}
	s.takeoutID = row.TakeoutID

	s.hasState = row.Pts != nil && row.Qts != nil && row.Date != nil && row.Seq != nil
	if s.hasState {
		s.state = protocol.UpdateState{
			Pts:  *row.Pts,
			Qts:  *row.Qts,
			Date: time.Unix(*row.Date, 0).UTC(),
			Seq:  *row.Seq,
		}
	}

	if row.AuthKeyEnc == nil {
		s.authKey = nil
		return nil
	}

	key, err := s.cipher.Decrypt(s.aad(), row.AuthKeyEnc)
	if err != nil {
		s.authKey = nil
		return fmt.Errorf("auth key for account %d is unusable: %w", s.accountID, err)
	}
	s.authKey = key
	return nil
}

// Save upserts the account's session row, re-encrypting the auth key.
// Each call produces a fresh token (fresh nonce), so equality of stored
// sessions is defined over decrypted values.
func (s *StoreSession) Save(ctx context.Context) error {
	var authKeyEnc []byte
	if s.authKey != nil {
		var err error
		authKeyEnc, err = s.cipher.Encrypt(s.aad(), s.authKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt auth key for account %d: %w", s.accountID, err)
		}
	}

	var pts, qts, seq *int
	var date *int64
	if s.hasState {
		pts, qts, seq = &s.state.Pts, &s.state.Qts, &s.state.Seq
		epoch := s.state.Date.Unix()
		date = &epoch
	}

	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO sessions (
			account_id, dc_id, server_address, port, auth_key_enc,
			pts, qts, date, seq, takeout_id, last_used_at, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (account_id) DO UPDATE SET
			dc_id = EXCLUDED.dc_id,
			server_address = EXCLUDED.server_address,
			port = EXCLUDED.port,
			auth_key_enc = EXCLUDED.auth_key_enc,
			pts = EXCLUDED.pts,
			qts = EXCLUDED.qts,
			date = EXCLUDED.date,
			seq = EXCLUDED.seq,
			takeout_id = EXCLUDED.takeout_id,
			last_used_at = CURRENT_TIMESTAMP
	`, s.accountID, s.dcID, s.serverAddress, s.port, authKeyEnc,
		pts, qts, date, seq, s.takeoutID).Error
	if err != nil {
		return fmt.Errorf("failed to save session for account %d: %w", s.accountID, err)
	}
	return nil
}

// Delete removes the session row and clears in-memory state. A
// subsequent Load behaves identically to a never-authenticated account.
func (s *StoreSession) Delete(ctx context.Context) error {
	err := s.db.WithContext(ctx).Exec(
		`DELETE FROM sessions WHERE account_id = ?`, s.accountID).Error
	if err != nil {
		return fmt.Errorf("failed to delete session for account %d: %w", s.accountID, err)
	}

	s.authKey = nil
	s.dcID = 0
	s.serverAddress = ""
	s.port = defaultPort
	s.takeoutID = nil
	s.state = protocol.UpdateState{}
	s.hasState = false
	s.self = nil
	s.entities = map[int64]protocol.InputPeer{}
	return nil
}

// Close is a no-op; the database handle is owned by the process, not the
// session.
func (s *StoreSession) Close() error { return nil }

func (s *StoreSession) SetDC(id int, address string, port int) {
	s.dcID = id
	s.serverAddress = address
	s.port = port
}

func (s *StoreSession) DC() (int, string, int) {
	return s.dcID, s.serverAddress, s.port
}

func (s *StoreSession) AuthKey() []byte { return s.authKey }

func (s *StoreSession) SetAuthKey(key []byte) { s.authKey = key }

func (s *StoreSession) UpdateState() (protocol.UpdateState, bool) {
	if !s.hasState {
		return protocol.UpdateState{}, false
	}
	return s.state, true
}

// SetUpdateState records the event-stream cursor. The timestamp is
// normalized to whole seconds in UTC, matching the integer epoch value
// the row stores: the persisted format must stay stable no matter what
// time representation the client library is using this release.
func (s *StoreSession) SetUpdateState(state protocol.UpdateState) {
	state.Date = time.Unix(state.Date.Unix(), 0).UTC()
	s.state = state
	s.hasState = true
}

func (s *StoreSession) TakeoutID() (int64, bool) {
	if s.takeoutID == nil {
		return 0, false
	}
	return *s.takeoutID, true
}

func (s *StoreSession) SetTakeoutID(id *int64) { s.takeoutID = id }

// ProcessEntities retains this account's own identity from a server
// payload. Other entities are cached opportunistically in memory only;
// nothing here touches the database.
func (s *StoreSession) ProcessEntities(payload protocol.EntityPayload) {
	for _, u := range payload.Users {
		peer := protocol.InputPeer{UserID: u.ID, AccessHash: u.AccessHash}
		if u.Self {
			self := peer
			s.self = &self
		}
		s.entities[u.ID] = peer
	}
}

func (s *StoreSession) InputEntity(userID int64) (protocol.InputPeer, error) {
	if peer, ok := s.entities[userID]; ok {
		return peer, nil
	}
	return protocol.InputPeer{}, protocol.ErrEntityNotFound
}

func (s *StoreSession) Self() (protocol.InputPeer, error) {
	if s.self == nil {
		return protocol.InputPeer{}, protocol.ErrEntityNotFound
	}
	return *s.self, nil
}

// CacheFile is an always-miss stub: this store deliberately does not
// cache media blobs.
func (s *StoreSession) CacheFile([]byte, int, []byte) error { return nil }

// File always misses; see CacheFile.
func (s *StoreSession) File([]byte, int) ([]byte, bool) { return nil, false }
