// Package config provides configuration management for telehive.
//
// This package handles loading and validating configuration from
// environment variables and an optional YAML configuration file.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - Configuration file (optional)
//
// # Key Configuration Options
//
//   - TELEHIVE_DATA_KEY: Encryption key for credentials at rest
//   - TELEHIVE_MODULE_DIR: Plugin source directory
//   - TELEHIVE_LOG_LEVEL: Logging verbosity
//   - DATABASE_URL: Database connection
package config
