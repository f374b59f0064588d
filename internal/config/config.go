// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StructuredConfig is the top-level configuration container for the
// go-clip-sync daemon. It aggregates all sub-configurations and is populated
// by merging values from environment variables and an optional TOML file on
// top of built-in defaults. The merged result is immutable for the process
// lifetime.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
//   - toml      — key in the TOML configuration file (pelletier/go-toml).
type StructuredConfig struct {
	// Server holds the listening endpoint and the optional shared-secret
	// token required from connecting clients.
	Server Server `envPrefix:"SERVER_" toml:"server"`

	// Client holds the endpoint of the server this machine replicates to.
	Client Client `envPrefix:"CLIENT_" toml:"client"`

	// Storage holds the clipboard history persistence settings.
	Storage Storage `envPrefix:"STORAGE_" toml:"storage"`

	// Sync holds the poll, retry and heartbeat cadence of the sync core.
	Sync Sync `envPrefix:"SYNC_" toml:"sync"`

	// TOMLFilePath is the optional path to a TOML configuration file.
	// When empty, the default per-user config path is probed.
	// Populated via the CONFIG environment variable or the --config flag.
	TOMLFilePath string `env:"CONFIG" toml:"-"`
}

// Server holds the inbound sync endpoint settings.
type Server struct {
	// Host is the interface the sync server binds to.
	// Env: SERVER_HOST
	Host string `env:"HOST" toml:"host"`

	// Port is the TCP port the sync server listens on.
	// Env: SERVER_PORT
	Port int `env:"PORT" toml:"port"`

	// AuthToken is the shared secret clients must present. Empty disables
	// authentication: sessions start out already authenticated.
	// Env: SERVER_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN" toml:"auth_token"`
}

// Client holds the outbound sync endpoint settings.
type Client struct {
	// ServerHost is the host of the sync server to replicate with.
	// Env: CLIENT_SERVER_HOST
	ServerHost string `env:"SERVER_HOST" toml:"server_host"`

	// ServerPort is the TCP port of the sync server.
	// Env: CLIENT_SERVER_PORT
	ServerPort int `env:"SERVER_PORT" toml:"server_port"`

	// AuthToken is the shared secret presented during the handshake.
	// Env: CLIENT_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN" toml:"auth_token"`
}

// Storage holds clipboard history persistence settings.
type Storage struct {
	// MaxHistory bounds the number of retained history rows; older rows
	// are evicted after every insert.
	// Env: STORAGE_MAX_HISTORY
	MaxHistory int `env:"MAX_HISTORY" toml:"max_history"`

	// MaxContentSizeMB is the largest clipboard payload the monitor will
	// pick up, in megabytes.
	// Env: STORAGE_MAX_CONTENT_SIZE_MB
	MaxContentSizeMB int `env:"MAX_CONTENT_SIZE_MB" toml:"max_content_size_mb"`

	// DatabasePath is the sqlite file holding the history. Empty selects
	// the default per-user data path.
	// Env: STORAGE_DATABASE_PATH
	DatabasePath string `env:"DATABASE_PATH" toml:"database_path"`
}

// Sync holds the timing knobs of the replication core. All values are
// in milliseconds, matching the wire-compatible TOML file format.
type Sync struct {
	// IntervalMs is the clipboard poll interval.
	// Env: SYNC_INTERVAL_MS
	IntervalMs int64 `env:"INTERVAL_MS" toml:"interval_ms"`

	// RetryDelayMs is the fixed delay between client reconnect attempts.
	// Env: SYNC_RETRY_DELAY_MS
	RetryDelayMs int64 `env:"RETRY_DELAY_MS" toml:"retry_delay_ms"`

	// HeartbeatIntervalMs is the client Ping cadence.
	// Env: SYNC_HEARTBEAT_INTERVAL_MS
	HeartbeatIntervalMs int64 `env:"HEARTBEAT_INTERVAL_MS" toml:"heartbeat_interval_ms"`
}

// Interval returns the poll interval as a duration.
func (s Sync) Interval() time.Duration { return time.Duration(s.IntervalMs) * time.Millisecond }

// RetryDelay returns the reconnect backoff as a duration.
func (s Sync) RetryDelay() time.Duration { return time.Duration(s.RetryDelayMs) * time.Millisecond }

// HeartbeatInterval returns the Ping cadence as a duration.
func (s Sync) HeartbeatInterval() time.Duration {
	return time.Duration(s.HeartbeatIntervalMs) * time.Millisecond
}

// defaults returns the built-in configuration, used as the lowest-precedence
// layer of the merge.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		Server: Server{
			Host: "0.0.0.0",
			Port: 9876,
		},
		Client: Client{
			ServerHost: "127.0.0.1",
			ServerPort: 9876,
		},
		Storage: Storage{
			MaxHistory:       1000,
			MaxContentSizeMB: 10,
		},
		Sync: Sync{
			IntervalMs:          500,
			RetryDelayMs:        5000,
			HeartbeatIntervalMs: 30000,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the daemon configuration.
//
// Precedence, highest first: environment variables, the TOML file (explicit
// path, CONFIG env var, or the default per-user location), built-in defaults.
// A configuration that fails validation is fatal at startup: the process must
// not run in a partially configured state.
func GetStructuredConfig(tomlPath string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withTOML(tomlPath).
		withDefaults().
		build()
}

// DefaultConfigPath returns the per-user location of the TOML config file.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-clip-sync", "config.toml"), nil
}

// DefaultDatabasePath returns the per-user location of the history database.
func DefaultDatabasePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "go-clip-sync", "clipboard.db"), nil
}

// GetDatabasePath resolves the configured database path, falling back to the
// per-user default.
func (cfg *StructuredConfig) GetDatabasePath() (string, error) {
	if cfg.Storage.DatabasePath != "" {
		return cfg.Storage.DatabasePath, nil
	}
	return DefaultDatabasePath()
}

// fallbackSource is generated once so SourceName stays stable for the
// process even without a hostname.
var fallbackSource = sync.OnceValue(func() string {
	return "host-" + uuid.NewString()[:8]
})

// SourceName identifies this machine in replicated entries. Hostname when
// available, otherwise a random stable-for-the-process identifier.
func SourceName() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackSource()
}
