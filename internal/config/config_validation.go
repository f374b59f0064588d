// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before the daemon starts. A failure here is fatal: the process
// never runs in a partially configured state.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidServerConfigs, cfg.Server.Port)
	}

	if cfg.Client.ServerHost == "" {
		return fmt.Errorf("%w: client server host is empty", ErrInvalidClientConfigs)
	}
	if cfg.Client.ServerPort < 1 || cfg.Client.ServerPort > 65535 {
		return fmt.Errorf("%w: client server port %d out of range", ErrInvalidClientConfigs, cfg.Client.ServerPort)
	}

	if cfg.Storage.MaxHistory < 1 {
		return fmt.Errorf("%w: max history must be positive", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.MaxContentSizeMB < 1 {
		return fmt.Errorf("%w: max content size must be positive", ErrInvalidStorageConfigs)
	}

	if cfg.Sync.IntervalMs < 1 || cfg.Sync.RetryDelayMs < 1 || cfg.Sync.HeartbeatIntervalMs < 1 {
		return fmt.Errorf("%w: all intervals must be positive", ErrInvalidSyncConfigs)
	}

	return nil
}
