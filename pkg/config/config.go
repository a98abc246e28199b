package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/telehive/telehive/pkg/secrets"
)

const (
	DefaultConfigPath = "/etc/telehive/config"
	ConfigFileName    = "telehive.yml"
)

// HiveConfig holds all telehive configuration settings
type HiveConfig struct {
	// ModuleDir is the directory scanned for plugin source files
	ModuleDir string `yaml:"module_dir" json:"module_dir"`

	// DefaultLangCode is the language code for accounts that do not set one
	DefaultLangCode string `yaml:"default_lang_code" json:"default_lang_code"`

	// DeviceModel is the default device fingerprint reported to the service
	DeviceModel string `yaml:"device_model" json:"device_model"`

	// SystemVersion is the default system fingerprint reported to the service
	SystemVersion string `yaml:"system_version" json:"system_version"`

	// AppVersion is the default application fingerprint reported to the service
	AppVersion string `yaml:"app_version" json:"app_version"`

	// SessionSaveIntervalSeconds is how often a connected account flushes its session
	SessionSaveIntervalSeconds int `yaml:"session_save_interval_seconds" json:"session_save_interval_seconds"`

	// ReconnectRetries is how many times an account task retries a lost connection
	ReconnectRetries int `yaml:"reconnect_retries" json:"reconnect_retries"`

	// WatchModules re-registers plugin sources when they change on disk
	WatchModules bool `yaml:"watch_modules" json:"watch_modules"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *HiveConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *HiveConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *HiveConfig {
	return &HiveConfig{
		ModuleDir:                  "/var/lib/telehive/modules",
		DefaultLangCode:            "en",
		DeviceModel:                "telehive",
		SystemVersion:              "linux",
		AppVersion:                 "1.0",
		SessionSaveIntervalSeconds: 60,
		ReconnectRetries:           5,
		WatchModules:               false,
		sources:                    make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*HiveConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("TELEHIVE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig HiveConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"module_dir", "default_lang_code", "device_model", "system_version",
		"app_version", "session_save_interval_seconds", "reconnect_retries",
		"watch_modules",
	}
}

func (c *HiveConfig) applyFileConfig(file *HiveConfig) {
	if file.ModuleDir != "" {
		c.ModuleDir = file.ModuleDir
		c.sources["module_dir"] = "file"
	}
	if file.DefaultLangCode != "" {
		c.DefaultLangCode = file.DefaultLangCode
		c.sources["default_lang_code"] = "file"
	}
	if file.DeviceModel != "" {
		c.DeviceModel = file.DeviceModel
		c.sources["device_model"] = "file"
	}
	if file.SystemVersion != "" {
		c.SystemVersion = file.SystemVersion
		c.sources["system_version"] = "file"
	}
	if file.AppVersion != "" {
		c.AppVersion = file.AppVersion
		c.sources["app_version"] = "file"
	}
	if file.SessionSaveIntervalSeconds != 0 {
		c.SessionSaveIntervalSeconds = file.SessionSaveIntervalSeconds
		c.sources["session_save_interval_seconds"] = "file"
	}
	if file.ReconnectRetries != 0 {
		c.ReconnectRetries = file.ReconnectRetries
		c.sources["reconnect_retries"] = "file"
	}
	if file.WatchModules {
		c.WatchModules = true
		c.sources["watch_modules"] = "file"
	}
}

func (c *HiveConfig) applyEnvConfig() {
	if val := os.Getenv("TELEHIVE_MODULE_DIR"); val != "" {
		c.ModuleDir = val
		c.sources["module_dir"] = "environment"
	}
	if val := os.Getenv("TELEHIVE_DEFAULT_LANG_CODE"); val != "" {
		c.DefaultLangCode = val
		c.sources["default_lang_code"] = "environment"
	}
	if val := os.Getenv("TELEHIVE_DEVICE_MODEL"); val != "" {
		c.DeviceModel = val
		c.sources["device_model"] = "environment"
	}
	if val := os.Getenv("TELEHIVE_SYSTEM_VERSION"); val != "" {
		c.SystemVersion = val
		c.sources["system_version"] = "environment"
	}
	if val := os.Getenv("TELEHIVE_APP_VERSION"); val != "" {
		c.AppVersion = val
		c.sources["app_version"] = "environment"
	}
	if val := os.Getenv("TELEHIVE_SESSION_SAVE_INTERVAL_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SessionSaveIntervalSeconds = i
			c.sources["session_save_interval_seconds"] = "environment"
		}
	}
	if val := os.Getenv("TELEHIVE_RECONNECT_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ReconnectRetries = i
			c.sources["reconnect_retries"] = "environment"
		}
	}
	if val := os.Getenv("TELEHIVE_WATCH_MODULES"); val != "" {
		c.WatchModules = val == "true" || val == "1"
		c.sources["watch_modules"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *HiveConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *HiveConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SessionSaveInterval returns the session flush interval as a duration
func (c *HiveConfig) SessionSaveInterval() time.Duration {
	return time.Duration(c.SessionSaveIntervalSeconds) * time.Second
}

// Validate validates the configuration
func (c *HiveConfig) Validate() error {
	if c.SessionSaveIntervalSeconds < 1 {
		return fmt.Errorf("session_save_interval_seconds must be at least 1, got %d", c.SessionSaveIntervalSeconds)
	}
	if c.ReconnectRetries < 0 {
		return fmt.Errorf("reconnect_retries must not be negative, got %d", c.ReconnectRetries)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *HiveConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "module_dir", Value: c.ModuleDir, Source: c.Source("module_dir")},
		{Name: "default_lang_code", Value: c.DefaultLangCode, Source: c.Source("default_lang_code")},
		{Name: "device_model", Value: c.DeviceModel, Source: c.Source("device_model")},
		{Name: "system_version", Value: c.SystemVersion, Source: c.Source("system_version")},
		{Name: "app_version", Value: c.AppVersion, Source: c.Source("app_version")},
		{Name: "session_save_interval_seconds", Value: strconv.Itoa(c.SessionSaveIntervalSeconds), Source: c.Source("session_save_interval_seconds")},
		{Name: "reconnect_retries", Value: strconv.Itoa(c.ReconnectRetries), Source: c.Source("reconnect_retries")},
		{Name: "watch_modules", Value: strconv.FormatBool(c.WatchModules), Source: c.Source("watch_modules")},
	}
}

// FormatText returns a text representation of the configuration
func (c *HiveConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-34s %-36s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-34s %-36s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-34s %-36s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *HiveConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DataKey reads and decodes the process data key from the
// TELEHIVE_DATA_KEY environment variable. The key never lives in the
// config file.
func DataKey() ([]byte, error) {
	encoded := os.Getenv("TELEHIVE_DATA_KEY")
	if encoded == "" {
		return nil, fmt.Errorf("TELEHIVE_DATA_KEY is not set")
	}
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("TELEHIVE_DATA_KEY is not valid base64: %w", err)
	}
	if len(key) != secrets.KeySize {
		return nil, fmt.Errorf("TELEHIVE_DATA_KEY must decode to %d bytes, got %d", secrets.KeySize, len(key))
	}
	return key, nil
}

// DatabaseURL reads the database connection string from the
// DATABASE_URL environment variable.
func DatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	return url, nil
}
