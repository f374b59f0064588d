// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

var (
	// ErrInvalidServerConfigs reports an unusable server endpoint section.
	ErrInvalidServerConfigs = errors.New("invalid server configs")

	// ErrInvalidClientConfigs reports an unusable client endpoint section.
	ErrInvalidClientConfigs = errors.New("invalid client configs")

	// ErrInvalidStorageConfigs reports unusable storage limits.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs")

	// ErrInvalidSyncConfigs reports non-positive sync intervals, which
	// would turn the retry loops into busy spins.
	ErrInvalidSyncConfigs = errors.New("invalid sync configs")
)
