package gorm

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/model"
	"github.com/telehive/telehive/pkg/store"
)

// Ensure ModulesStore implements store.ModulesStore
var _ store.ModulesStore = (*ModulesStore)(nil)

// ModulesStore implements store.ModulesStore using GORM
type ModulesStore struct {
	db *gorm.DB
}

// NewModulesStore creates a new ModulesStore
func NewModulesStore(db *gorm.DB) *ModulesStore {
	return &ModulesStore{db: db}
}

// RegisterModule inserts or updates a module's catalog entry by its
// unique name and returns the module id.
func (s *ModulesStore) RegisterModule(name, path, description, version string) (int64, error) {
	err := s.db.Exec(`
		INSERT INTO modules (module_name, module_path, description, version, added_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (module_name) DO UPDATE SET
			module_path = EXCLUDED.module_path,
			description = EXCLUDED.description,
			version = EXCLUDED.version
	`, name, path, description, version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to register module %q: %w", name, err)
	}

	module, err := s.Module(name)
	if err != nil {
		return 0, err
	}
	return module.ID, nil
}

// Module fetches a catalog entry by name.
func (s *ModulesStore) Module(name string) (*store.Module, error) {
	var row model.Module
	if err := s.db.Where("module_name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrModuleNotFound
		}
		return nil, err
	}
	return &store.Module{
		ID:          row.ModuleID,
		Name:        row.ModuleName,
		Path:        row.ModulePath,
		Description: row.Description,
		Version:     row.Version,
	}, nil
}

// ListModules returns the whole catalog ordered by name.
func (s *ModulesStore) ListModules() ([]store.Module, error) {
	var rows []model.Module
	if err := s.db.Order("module_name").Find(&rows).Error; err != nil {
		return nil, err
	}

	modules := make([]store.Module, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, store.Module{
			ID:          row.ModuleID,
			Name:        row.ModuleName,
			Path:        row.ModulePath,
			Description: row.Description,
			Version:     row.Version,
		})
	}
	return modules, nil
}

// DeleteModule removes a catalog entry; all links to it cascade.
func (s *ModulesStore) DeleteModule(name string) error {
	tx := s.db.Exec(`DELETE FROM modules WHERE module_name = ?`, name)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrModuleNotFound
	}
	return nil
}

// LinkModule associates a module with an account. Re-linking an
// already-linked module updates the existing row's active flag and
// configuration; the uniqueness constraint on (account_id, module_id)
// guarantees a single row per pair. The trust flag is deliberately left
// out of the update set: linking must never elevate trust.
func (s *ModulesStore) LinkModule(accountID, moduleID int64, config map[string]any, active bool) error {
	configJSON, err := marshalConfig(config)
	if err != nil {
		return err
	}

	err = s.db.Exec(`
		INSERT INTO account_modules (account_id, module_id, is_active, is_trusted, configuration_json, activated_at, updated_at)
		VALUES (?, ?, ?, FALSE, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (account_id, module_id) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			configuration_json = EXCLUDED.configuration_json,
			updated_at = CURRENT_TIMESTAMP
	`, accountID, moduleID, active, configJSON).Error
	if err != nil {
		return fmt.Errorf("failed to link module %d to account %d: %w", moduleID, accountID, err)
	}
	return nil
}

// UnlinkModule removes the link row only, never the shared catalog entry.
func (s *ModulesStore) UnlinkModule(accountID, moduleID int64) error {
	tx := s.db.Exec(
		`DELETE FROM account_modules WHERE account_id = ? AND module_id = ?`,
		accountID, moduleID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrLinkNotFound
	}
	return nil
}

// ModuleLink fetches one link row.
func (s *ModulesStore) ModuleLink(accountID, moduleID int64) (*store.Link, error) {
	var row model.AccountModule
	err := s.db.Where("account_id = ? AND module_id = ?", accountID, moduleID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrLinkNotFound
		}
		return nil, err
	}

	config, err := unmarshalConfig(row.ConfigurationJSON)
	if err != nil {
		return nil, err
	}

	return &store.Link{
		AccountID: row.AccountID,
		ModuleID:  row.ModuleID,
		Active:    row.IsActive,
		Trusted:   row.IsTrusted,
		Config:    config,
	}, nil
}

// SetActive toggles a link's active flag.
func (s *ModulesStore) SetActive(accountID, moduleID int64, active bool) error {
	return s.updateLink(accountID, moduleID, map[string]interface{}{"is_active": active})
}

// SetTrust elevates or revokes the per-account trust flag.
func (s *ModulesStore) SetTrust(accountID, moduleID int64, trusted bool) error {
	return s.updateLink(accountID, moduleID, map[string]interface{}{"is_trusted": trusted})
}

// SetConfigKey writes one key of the link's configuration blob. The
// patch is a single jsonb_set UPDATE, so it never clobbers the other
// keys and never reads stale state first.
func (s *ModulesStore) SetConfigKey(accountID, moduleID int64, key string, value any) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode configuration value: %w", err)
	}

	tx := s.db.Exec(`
		UPDATE account_modules
		SET configuration_json = jsonb_set(COALESCE(configuration_json, '{}'::jsonb), ARRAY[?], ?::jsonb),
			updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ? AND module_id = ?
	`, key, string(valueJSON), accountID, moduleID)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrLinkNotFound
	}
	return nil
}

func (s *ModulesStore) updateLink(accountID, moduleID int64, updates map[string]interface{}) error {
	tx := s.db.Model(&model.AccountModule{}).
		Where("account_id = ? AND module_id = ?", accountID, moduleID).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrLinkNotFound
	}
	return nil
}

// ActiveModules returns the catalog entries linked active to the
// account, joined with their trust flag and configuration.
func (s *ModulesStore) ActiveModules(accountID int64) ([]store.ActiveModule, error) {
	var rows []struct {
		model.Module
		IsTrusted         bool
		ConfigurationJSON []byte
	}

	err := s.db.
		Table("modules").
		Select("modules.*, account_modules.is_trusted, account_modules.configuration_json").
		Joins("JOIN account_modules ON account_modules.module_id = modules.module_id").
		Where("account_modules.account_id = ? AND account_modules.is_active = TRUE", accountID).
		Order("modules.module_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active modules for account %d: %w", accountID, err)
	}

	active := make([]store.ActiveModule, 0, len(rows))
	for _, row := range rows {
		config, err := unmarshalConfig(row.ConfigurationJSON)
		if err != nil {
			return nil, err
		}
		active = append(active, store.ActiveModule{
			Module: store.Module{
				ID:          row.ModuleID,
				Name:        row.ModuleName,
				Path:        row.ModulePath,
				Description: row.Description,
				Version:     row.Version,
			},
			Trusted: row.IsTrusted,
			Config:  config,
		})
	}
	return active, nil
}

func marshalConfig(config map[string]any) ([]byte, error) {
	if config == nil {
		return nil, nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}

func unmarshalConfig(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return config, nil
}
