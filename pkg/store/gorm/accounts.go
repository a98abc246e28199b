package gorm

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/model"
	"github.com/telehive/telehive/pkg/secrets"
	"github.com/telehive/telehive/pkg/store"
)

// Ensure AccountsStore implements store.AccountsStore
var _ store.AccountsStore = (*AccountsStore)(nil)

// AccountsStore implements store.AccountsStore using GORM
type AccountsStore struct {
	db     *gorm.DB
	cipher secrets.Cipher
}

// NewAccountsStore creates a new AccountsStore
func NewAccountsStore(db *gorm.DB, cipher secrets.Cipher) *AccountsStore {
	return &AccountsStore{db: db, cipher: cipher}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Credentials are bound to the account name, which is immutable.
func accountAAD(name string) []byte {
	return []byte("account:" + name)
}

// CreateAccount creates a new account, encrypting its API credentials
// and proxy credentials with the process data key.
func (s *AccountsStore) CreateAccount(account store.NewAccount) (int64, error) {
	aad := accountAAD(account.Name)

	apiIDEnc, err := s.cipher.Encrypt(aad, []byte(account.APIID))
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt api id: %w", err)
	}
	apiHashEnc, err := s.cipher.Encrypt(aad, []byte(account.APIHash))
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt api hash: %w", err)
	}

	row := model.Account{
		AccountName:   account.Name,
		APIIDEnc:      apiIDEnc,
		APIHashEnc:    apiHashEnc,
		IsEnabled:     true,
		LangCode:      account.LangCode,
		DeviceModel:   account.DeviceModel,
		SystemVersion: account.SystemVersion,
		AppVersion:    account.AppVersion,
	}
	if row.LangCode == "" {
		row.LangCode = "en"
	}

	if account.Proxy != nil {
		if err := s.applyProxy(&row, aad, account.Proxy); err != nil {
			return 0, err
		}
	}

	if err := s.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrAccountExists
		}
		return 0, fmt.Errorf("failed to create account %q: %w", account.Name, err)
	}
	return row.AccountID, nil
}

func (s *AccountsStore) applyProxy(row *model.Account, aad []byte, proxy *store.Proxy) error {
	row.ProxyType = &proxy.Type
	row.ProxyHost = &proxy.Host
	row.ProxyPort = &proxy.Port

	if proxy.Username != "" {
		enc, err := s.cipher.Encrypt(aad, []byte(proxy.Username))
		if err != nil {
			return fmt.Errorf("failed to encrypt proxy username: %w", err)
		}
		row.ProxyUserEnc = enc
	}
	if proxy.Password != "" {
		enc, err := s.cipher.Encrypt(aad, []byte(proxy.Password))
		if err != nil {
			return fmt.Errorf("failed to encrypt proxy password: %w", err)
		}
		row.ProxyPassEnc = enc
	}
	return nil
}

// Account fetches an account by id with credentials decrypted.
func (s *AccountsStore) Account(id int64) (*store.Account, error) {
	var row model.Account
	if err := s.db.Where("account_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrAccountNotFound
		}
		return nil, err
	}
	return s.decryptAccount(&row)
}

// AccountByName fetches an account by its unique name.
func (s *AccountsStore) AccountByName(name string) (*store.Account, error) {
	var row model.Account
	if err := s.db.Where("account_name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrAccountNotFound
		}
		return nil, err
	}
	return s.decryptAccount(&row)
}

// ListAccounts returns all accounts, credentials decrypted.
func (s *AccountsStore) ListAccounts() ([]store.Account, error) {
	var rows []model.Account
	if err := s.db.Order("account_name").Find(&rows).Error; err != nil {
		return nil, err
	}

	accounts := make([]store.Account, 0, len(rows))
	for i := range rows {
		account, err := s.decryptAccount(&rows[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

func (s *AccountsStore) decryptAccount(row *model.Account) (*store.Account, error) {
	aad := accountAAD(row.AccountName)

	apiID, err := s.cipher.Decrypt(aad, row.APIIDEnc)
	if err != nil {
		return nil, fmt.Errorf("credentials for account %q are unusable: %w", row.AccountName, err)
	}
	apiHash, err := s.cipher.Decrypt(aad, row.APIHashEnc)
	if err != nil {
		return nil, fmt.Errorf("credentials for account %q are unusable: %w", row.AccountName, err)
	}

	account := &store.Account{
		ID:               row.AccountID,
		Name:             row.AccountName,
		RemoteIdentityID: row.RemoteIdentityID,
		APIID:            string(apiID),
		APIHash:          string(apiHash),
		Enabled:          row.IsEnabled,
		LangCode:         row.LangCode,
		DeviceModel:      row.DeviceModel,
		SystemVersion:    row.SystemVersion,
		AppVersion:       row.AppVersion,
	}

	if row.ProxyType != nil {
		proxy := &store.Proxy{Type: *row.ProxyType}
		if row.ProxyHost != nil {
			proxy.Host = *row.ProxyHost
		}
		if row.ProxyPort != nil {
			proxy.Port = *row.ProxyPort
		}
		if row.ProxyUserEnc != nil {
			user, err := s.cipher.Decrypt(aad, row.ProxyUserEnc)
			if err != nil {
				return nil, fmt.Errorf("proxy credentials for account %q are unusable: %w", row.AccountName, err)
			}
			proxy.Username = string(user)
		}
		if row.ProxyPassEnc != nil {
			pass, err := s.cipher.Decrypt(aad, row.ProxyPassEnc)
			if err != nil {
				return nil, fmt.Errorf("proxy credentials for account %q are unusable: %w", row.AccountName, err)
			}
			proxy.Password = string(pass)
		}
		account.Proxy = proxy
	}

	return account, nil
}

// SetEnabled toggles whether the account's task is started.
func (s *AccountsStore) SetEnabled(id int64, enabled bool) error {
	return s.updateAccount(id, map[string]interface{}{"is_enabled": enabled})
}

// SetRemoteIdentity records the remote identity learned on the first
// successful authentication.
func (s *AccountsStore) SetRemoteIdentity(id int64, remoteID int64) error {
	return s.updateAccount(id, map[string]interface{}{"remote_identity_id": remoteID})
}

// UpdateFingerprint replaces the device/client fingerprint fields.
func (s *AccountsStore) UpdateFingerprint(id int64, deviceModel, systemVersion, appVersion string) error {
	return s.updateAccount(id, map[string]interface{}{
		"device_model":   deviceModel,
		"system_version": systemVersion,
		"app_version":    appVersion,
	})
}

// UpdateProxy replaces the proxy descriptor; nil clears it.
func (s *AccountsStore) UpdateProxy(id int64, proxy *store.Proxy) error {
	if proxy == nil {
		return s.updateAccount(id, map[string]interface{}{
			"proxy_type":     nil,
			"proxy_host":     nil,
			"proxy_port":     nil,
			"proxy_user_enc": nil,
			"proxy_pass_enc": nil,
		})
	}

	account, err := s.Account(id)
	if err != nil {
		return err
	}
	aad := accountAAD(account.Name)

	updates := map[string]interface{}{
		"proxy_type":     proxy.Type,
		"proxy_host":     proxy.Host,
		"proxy_port":     proxy.Port,
		"proxy_user_enc": nil,
		"proxy_pass_enc": nil,
	}
	if proxy.Username != "" {
		enc, err := s.cipher.Encrypt(aad, []byte(proxy.Username))
		if err != nil {
			return fmt.Errorf("failed to encrypt proxy username: %w", err)
		}
		updates["proxy_user_enc"] = enc
	}
	if proxy.Password != "" {
		enc, err := s.cipher.Encrypt(aad, []byte(proxy.Password))
		if err != nil {
			return fmt.Errorf("failed to encrypt proxy password: %w", err)
		}
		updates["proxy_pass_enc"] = enc
	}
	return s.updateAccount(id, updates)
}

// SetLangCode changes the account's language code.
func (s *AccountsStore) SetLangCode(id int64, langCode string) error {
	return s.updateAccount(id, map[string]interface{}{"lang_code": langCode})
}

func (s *AccountsStore) updateAccount(id int64, updates map[string]interface{}) error {
	tx := s.db.Model(&model.Account{}).Where("account_id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes the account; the session row and module links
// cascade with it.
func (s *AccountsStore) DeleteAccount(id int64) error {
	tx := s.db.Exec(`DELETE FROM accounts WHERE account_id = ?`, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}
