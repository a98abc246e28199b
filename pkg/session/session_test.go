package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/protocol"
	"github.com/telehive/telehive/pkg/secrets"
)

type Suite struct {
	suite.Suite
	DB     *gorm.DB
	mock   sqlmock.Sqlmock
	cipher secrets.Cipher
}

func (s *Suite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)

	key := make([]byte, secrets.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	s.cipher, err = secrets.NewSymmetric(key)
	require.NoError(s.T(), err)
}

func (s *Suite) AfterTest(_, _ string) {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestStoreSession(t *testing.T) {
	suite.Run(t, new(Suite))
}

var sessionColumns = []string{
	"session_id", "account_id", "dc_id", "server_address", "port",
	"auth_key_enc", "pts", "qts", "date", "seq", "takeout_id",
	"last_used_at", "created_at",
}

func (s *Suite) expectLoadRows(rows *sqlmock.Rows) {
	s.mock.ExpectQuery(`SELECT \* FROM "sessions"`).
		WithArgs(int64(42)).
		WillReturnRows(rows)
}

func (s *Suite) TestLoadMissingRowYieldsEmptySession() {
	s.expectLoadRows(sqlmock.NewRows(sessionColumns))

	sess := New(s.DB, s.cipher, 42)
	require.NoError(s.T(), sess.Load(context.Background()))

	require.Nil(s.T(), sess.AuthKey())
	dc, addr, port := sess.DC()
	require.Equal(s.T(), 0, dc)
	require.Equal(s.T(), "", addr)
	require.Equal(s.T(), 443, port)
	_, ok := sess.UpdateState()
	require.False(s.T(), ok)
}

func (s *Suite) TestLoadDecryptsAuthKey() {
	authKey := make([]byte, 256)
	for i := range authKey {
		authKey[i] = byte(i * 3)
	}
	token, err := s.cipher.Encrypt([]byte("session:42"), authKey)
	require.NoError(s.T(), err)

	now := time.Now()
	s.expectLoadRows(sqlmock.NewRows(sessionColumns).AddRow(
		int64(1), int64(42), 2, "198.51.100.17", 443,
		token, 100, 200, int64(1700000000), 300, nil,
		now, now,
	))

	sess := New(s.DB, s.cipher, 42)
	require.NoError(s.T(), sess.Load(context.Background()))

	require.Equal(s.T(), authKey, sess.AuthKey())

	dc, addr, port := sess.DC()
	require.Equal(s.T(), 2, dc)
	require.Equal(s.T(), "198.51.100.17", addr)
	require.Equal(s.T(), 443, port)

	state, ok := sess.UpdateState()
	require.True(s.T(), ok)
	require.Equal(s.T(), 100, state.Pts)
	require.Equal(s.T(), 200, state.Qts)
	require.Equal(s.T(), int64(1700000000), state.Date.Unix())
	require.Equal(s.T(), 300, state.Seq)
}

func (s *Suite) TestLoadSurfacesDecryptionFailure() {
	otherKey := make([]byte, secrets.KeySize)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	otherCipher, err := secrets.NewSymmetric(otherKey)
	require.NoError(s.T(), err)

	token, err := otherCipher.Encrypt([]byte("session:42"), []byte("auth key material"))
	require.NoError(s.T(), err)

	now := time.Now()
	s.expectLoadRows(sqlmock.NewRows(sessionColumns).AddRow(
		int64(1), int64(42), 2, "198.51.100.17", 443,
		token, nil, nil, nil, nil, nil,
		now, now,
	))

	sess := New(s.DB, s.cipher, 42)
	err = sess.Load(context.Background())
	require.Error(s.T(), err)

	var decErr *secrets.DecryptionError
	require.True(s.T(), errors.As(err, &decErr), "expected *secrets.DecryptionError in chain, got %v", err)
	require.Nil(s.T(), sess.AuthKey(), "a key that failed to decrypt must not be kept")
}

func (s *Suite) TestSaveUpsertsEncryptedRow() {
	sess := New(s.DB, s.cipher, 42)
	sess.SetDC(4, "203.0.113.9", 443)
	sess.SetAuthKey([]byte("auth key material"))
	sess.SetUpdateState(protocol.UpdateState{
		Pts: 100, Qts: 200, Date: time.Unix(1700000000, 0), Seq: 300,
	})

	s.mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(
			int64(42), 4, "203.0.113.9", 443, sqlmock.AnyArg(),
			100, 200, int64(1700000000), 300, nil,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(s.T(), sess.Save(context.Background()))
}

func (s *Suite) TestSaveWithoutAuthKeyWritesNull() {
	sess := New(s.DB, s.cipher, 42)
	sess.SetDC(1, "198.51.100.1", 443)

	s.mock.ExpectExec(`INSERT INTO sessions`).
		WithArgs(
			int64(42), 1, "198.51.100.1", 443, nil,
			nil, nil, nil, nil, nil,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(s.T(), sess.Save(context.Background()))
}

func (s *Suite) TestUpdateStateNormalizesDateToWholeSeconds() {
	sess := New(s.DB, s.cipher, 42)

	// A sub-second, zoned timestamp must come back as the same whole
	// epoch second in UTC.
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2023, 11, 14, 22, 13, 20, 987654321, loc)
	sess.SetUpdateState(protocol.UpdateState{Pts: 1, Qts: 2, Date: in, Seq: 3})

	state, ok := sess.UpdateState()
	require.True(s.T(), ok)
	require.Equal(s.T(), in.Unix(), state.Date.Unix())
	require.Equal(s.T(), 0, state.Date.Nanosecond())
	require.Equal(s.T(), time.UTC, state.Date.Location())
}

func (s *Suite) TestDeleteClearsStateAndRow() {
	sess := New(s.DB, s.cipher, 42)
	sess.SetDC(2, "198.51.100.17", 443)
	sess.SetAuthKey([]byte("auth key material"))
	sess.SetUpdateState(protocol.UpdateState{Pts: 1, Qts: 2, Date: time.Unix(0, 0), Seq: 3})
	sess.ProcessEntities(protocol.EntityPayload{
		Users: []protocol.User{{ID: 7, AccessHash: 99, Self: true}},
	})

	s.mock.ExpectExec(`DELETE FROM sessions WHERE account_id = \$1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(s.T(), sess.Delete(context.Background()))

	require.Nil(s.T(), sess.AuthKey())
	dc, addr, port := sess.DC()
	require.Equal(s.T(), 0, dc)
	require.Equal(s.T(), "", addr)
	require.Equal(s.T(), 443, port)
	_, ok := sess.UpdateState()
	require.False(s.T(), ok)
	_, err := sess.Self()
	require.ErrorIs(s.T(), err, protocol.ErrEntityNotFound)

	// After Delete a Load behaves like a never-authenticated account.
	s.expectLoadRows(sqlmock.NewRows(sessionColumns))
	require.NoError(s.T(), sess.Load(context.Background()))
	require.Nil(s.T(), sess.AuthKey())
}

func (s *Suite) TestEntityCache() {
	sess := New(s.DB, s.cipher, 42)

	_, err := sess.Self()
	require.ErrorIs(s.T(), err, protocol.ErrEntityNotFound)

	sess.ProcessEntities(protocol.EntityPayload{
		Users: []protocol.User{
			{ID: 7, AccessHash: 99, Self: true},
			{ID: 8, AccessHash: 11},
		},
	})

	self, err := sess.Self()
	require.NoError(s.T(), err)
	require.Equal(s.T(), protocol.InputPeer{UserID: 7, AccessHash: 99}, self)

	peer, err := sess.InputEntity(8)
	require.NoError(s.T(), err)
	require.Equal(s.T(), protocol.InputPeer{UserID: 8, AccessHash: 11}, peer)

	_, err = sess.InputEntity(12345)
	require.ErrorIs(s.T(), err, protocol.ErrEntityNotFound)
}

func (s *Suite) TestFileCacheAlwaysMisses() {
	sess := New(s.DB, s.cipher, 42)

	require.NoError(s.T(), sess.CacheFile([]byte("digest"), 1, []byte("blob")))
	data, ok := sess.File([]byte("digest"), 1)
	require.False(s.T(), ok)
	require.Nil(s.T(), data)
}
