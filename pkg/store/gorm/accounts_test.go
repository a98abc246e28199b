package gorm

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/secrets"
	"github.com/telehive/telehive/pkg/store"
)

type AccountsSuite struct {
	suite.Suite
	DB     *gorm.DB
	mock   sqlmock.Sqlmock
	cipher secrets.Cipher
	store  *AccountsStore
}

func (s *AccountsSuite) SetupTest() {
	var (
		db  *sql.DB
		err error
	)

	db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	s.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(s.T(), err)

	key, err := secrets.GenerateKey()
	require.NoError(s.T(), err)
	s.cipher, err = secrets.NewSymmetric(key)
	require.NoError(s.T(), err)

	s.store = NewAccountsStore(s.DB, s.cipher)
}

func (s *AccountsSuite) AfterTest(_, _ string) {
	require.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestAccountsStore(t *testing.T) {
	suite.Run(t, new(AccountsSuite))
}

var accountColumns = []string{
	"account_id", "account_name", "remote_identity_id", "api_id_enc", "api_hash_enc",
	"is_enabled", "lang_code", "device_model", "system_version", "app_version",
	"proxy_type", "proxy_host", "proxy_port", "proxy_user_enc", "proxy_pass_enc",
	"created_at", "updated_at",
}

// accountRow builds the values for a fetched account whose credentials
// were encrypted under the suite cipher.
func (s *AccountsSuite) accountRow(id int64, name string) []driverValue {
	aad := []byte("account:" + name)
	apiIDEnc, err := s.cipher.Encrypt(aad, []byte("12345"))
	require.NoError(s.T(), err)
	apiHashEnc, err := s.cipher.Encrypt(aad, []byte("deadbeef"))
	require.NoError(s.T(), err)

	return []driverValue{
		id, name, nil, apiIDEnc, apiHashEnc,
		true, "en", "Desktop", "1.0", "1.0",
		nil, nil, nil, nil, nil,
		time.Now(), time.Now(),
	}
}

type driverValue = driver.Value

func (s *AccountsSuite) TestCreateAccountEncryptsCredentials() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "accounts"`).
		WithArgs(
			"alice", nil, sqlmock.AnyArg(), sqlmock.AnyArg(),
			true, "en", "Desktop", "1.0", "1.0",
			nil, nil, nil, nil, nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(int64(1)))
	s.mock.ExpectCommit()

	id, err := s.store.CreateAccount(store.NewAccount{
		Name:          "alice",
		APIID:         "12345",
		APIHash:       "deadbeef",
		LangCode:      "en",
		DeviceModel:   "Desktop",
		SystemVersion: "1.0",
		AppVersion:    "1.0",
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(1), id)
}

func (s *AccountsSuite) TestAccountDecryptsCredentials() {
	s.mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(s.accountRow(1, "alice")...))

	account, err := s.store.Account(1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "alice", account.Name)
	require.Equal(s.T(), "12345", account.APIID)
	require.Equal(s.T(), "deadbeef", account.APIHash)
	require.Nil(s.T(), account.Proxy)
}

func (s *AccountsSuite) TestAccountWrongKeyIsUnusable() {
	// A row encrypted under a different data key must surface a
	// decryption error, never garbage credentials.
	otherKey, err := secrets.GenerateKey()
	require.NoError(s.T(), err)
	other, err := secrets.NewSymmetric(otherKey)
	require.NoError(s.T(), err)
	s.store = NewAccountsStore(s.DB, other)

	s.mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(s.accountRow(1, "alice")...))

	_, err = s.store.Account(1)
	var decErr *secrets.DecryptionError
	require.ErrorAs(s.T(), err, &decErr)
}

func (s *AccountsSuite) TestAccountByNameNotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := s.store.AccountByName("ghost")
	require.ErrorIs(s.T(), err, store.ErrAccountNotFound)
}

func (s *AccountsSuite) TestSetEnabled() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "accounts" SET`).
		WithArgs(false, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	require.NoError(s.T(), s.store.SetEnabled(1, false))
}

func (s *AccountsSuite) TestSetEnabledMissingAccount() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "accounts" SET`).
		WithArgs(false, sqlmock.AnyArg(), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.store.SetEnabled(9, false)
	require.ErrorIs(s.T(), err, store.ErrAccountNotFound)
}

func (s *AccountsSuite) TestDeleteAccount() {
	s.mock.ExpectExec(`DELETE FROM accounts WHERE account_id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(s.T(), s.store.DeleteAccount(1))
}
