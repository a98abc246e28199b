// Package telehive provides a multi-account client manager for a
// real-time messaging protocol.
//
// telehive keeps any number of protocol accounts connected from one
// process, persists their sessions encrypted in PostgreSQL, and runs
// per-account plugin modules with capability-based trust: an untrusted
// module only ever sees a restricted client handle.
//
// # Architecture
//
// The system is organized into several packages:
//
//   - pkg/secrets: Authenticated encryption for credentials at rest
//   - pkg/session: Persistent protocol session store
//   - pkg/protocol: Contracts consumed from the external client library
//   - pkg/manifest: Static plugin manifest extraction and validation
//   - pkg/store: Account and module registries
//   - pkg/sandbox: Capability-restricted client handle
//   - pkg/modcache: Loaded plugin instance table
//   - pkg/runner: Account lifecycle
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/config: Configuration management
//   - pkg/audit: Operation audit trail
//
// # Quick Start
//
// The system is run via the hivectl CLI:
//
//	# Generate a data key for encryption
//	hivectl data-key generate > data_key
//	export TELEHIVE_DATA_KEY=$(cat data_key)
//
//	# Run database migrations
//	hivectl db migrate
//
//	# Create an account
//	hivectl account create alice --api-id 12345 --api-hash deadbeef
//
//	# Register and link a module
//	hivectl module register /var/lib/telehive/modules/weather.go
//	hivectl module link alice weather --active
//
//	# Start all enabled accounts
//	hivectl run
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - TELEHIVE_DATA_KEY: Base64-encoded 256-bit key for data encryption
//   - TELEHIVE_MODULE_DIR: Directory of plugin source files
//   - TELEHIVE_LOG_LEVEL: Log level (debug, info, warn, error)
package main
