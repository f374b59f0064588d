// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStructuredConfig_Defaults(t *testing.T) {
	cfg, err := GetStructuredConfig(writeTempTOML(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9876, cfg.Server.Port)
	assert.Empty(t, cfg.Server.AuthToken)
	assert.Equal(t, "127.0.0.1", cfg.Client.ServerHost)
	assert.Equal(t, 9876, cfg.Client.ServerPort)
	assert.Equal(t, 1000, cfg.Storage.MaxHistory)
	assert.Equal(t, 10, cfg.Storage.MaxContentSizeMB)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.Interval())
	assert.Equal(t, 5*time.Second, cfg.Sync.RetryDelay())
	assert.Equal(t, 30*time.Second, cfg.Sync.HeartbeatInterval())
}

func TestGetStructuredConfig_TOMLFile(t *testing.T) {
	path := writeTempTOML(t, `
[server]
host = "192.168.1.10"
port = 4242
auth_token = "file-secret"

[storage]
max_history = 25

[sync]
interval_ms = 100
`)

	cfg, err := GetStructuredConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.10", cfg.Server.Host)
	assert.Equal(t, 4242, cfg.Server.Port)
	assert.Equal(t, "file-secret", cfg.Server.AuthToken)
	assert.Equal(t, 25, cfg.Storage.MaxHistory)
	assert.Equal(t, 100*time.Millisecond, cfg.Sync.Interval())

	// unset file keys fall through to defaults
	assert.Equal(t, "127.0.0.1", cfg.Client.ServerHost)
	assert.Equal(t, 5*time.Second, cfg.Sync.RetryDelay())
}

func TestGetStructuredConfig_EnvOverridesFile(t *testing.T) {
	path := writeTempTOML(t, `
[server]
port = 4242
auth_token = "file-secret"
`)

	t.Setenv("SERVER_PORT", "5353")
	t.Setenv("CLIENT_AUTH_TOKEN", "env-secret")

	cfg, err := GetStructuredConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 5353, cfg.Server.Port, "env must win over the file")
	assert.Equal(t, "file-secret", cfg.Server.AuthToken, "file values survive where env is silent")
	assert.Equal(t, "env-secret", cfg.Client.AuthToken)
}

func TestGetStructuredConfig_MissingExplicitFile(t *testing.T) {
	_, err := GetStructuredConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestGetStructuredConfig_MalformedFile(t *testing.T) {
	path := writeTempTOML(t, "[server\nport=")
	_, err := GetStructuredConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:    "server port out of range",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.Port = 70000 },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "empty client host",
			mutate:  func(cfg *StructuredConfig) { cfg.Client.ServerHost = "" },
			wantErr: ErrInvalidClientConfigs,
		},
		{
			name:    "zero max history",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.MaxHistory = 0 },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "zero retry delay",
			mutate:  func(cfg *StructuredConfig) { cfg.Sync.RetryDelayMs = 0 },
			wantErr: ErrInvalidSyncConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, WriteDefault(path))

	cfg, err := GetStructuredConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9876, cfg.Server.Port)
}

func TestSourceName(t *testing.T) {
	name := SourceName()
	assert.NotEmpty(t, name)
	assert.Equal(t, name, SourceName(), "source name is stable within a process")
}

// writeTempTOML writes content to a fresh temp config file and returns its
// path. Empty content produces an empty (still valid) file.
func writeTempTOML(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
