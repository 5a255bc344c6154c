// Package config loads runtime configuration for the Quilt CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), QUILT_* prefixed.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend HTTP API
//	-d string   path to the local SQLite database file
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://api.quilt.chat",
//	  "database_path": "quilt.db",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "catalog_ttl": "5m"
//	}
//
// Primary API
//
//   - type Config                     — holds the endpoint, storage and interval settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
package config
