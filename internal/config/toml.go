// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML reads the config file at path. When required is false a missing
// file yields (nil, nil) so the caller can fall through to defaults.
func parseTOML(path string, required bool) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading toml config file %q: %w", path, err)
	}

	cfg := &StructuredConfig{}
	if err = toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing toml config file %q: %w", path, err)
	}

	return cfg, nil
}

// WriteDefault writes the built-in defaults as a TOML file at path, creating
// parent directories as needed. Used by the `config --init` command.
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config dir: %w", err)
		}
	}

	data, err := toml.Marshal(defaults())
	if err != nil {
		return fmt.Errorf("error encoding default config: %w", err)
	}

	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
