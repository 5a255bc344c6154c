package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config with values from the environment.
//
// Recognized variables:
//
//	QUILT_SERVER_URL              base URL of the backend HTTP API
//	QUILT_DATABASE_PATH           path to the local SQLite database file
//	QUILT_REQUEST_TIMEOUT         request timeout in seconds
//	QUILT_ONLINE_CHECK_INTERVAL   online check interval in seconds
//	QUILT_CATALOG_TTL             model catalog freshness window in seconds
//
// Env sits between the JSON file and flags in precedence, so a flag still
// wins over an exported variable. A variable that is set but does not parse
// panics, same as a malformed config file or flag value.
func parseEnv(cfg *Config) {
	if v := os.Getenv("QUILT_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("QUILT_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	cfg.RequestTimeout = envSeconds("QUILT_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.OnlineCheckInterval = envSeconds("QUILT_ONLINE_CHECK_INTERVAL", cfg.OnlineCheckInterval)
	cfg.CatalogTTL = envSeconds("QUILT_CATALOG_TTL", cfg.CatalogTTL)
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("config: %s: %v", name, err))
	}
	return time.Duration(secs) * time.Second
}
