// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 3),
	}
}

// build merges the collected layers in order. mergo only fills fields that
// are still zero, so earlier layers take precedence over later ones.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

// withTOML layers in the TOML file. An explicit path wins over the CONFIG
// env var, which wins over the default per-user path. A missing file at the
// default path is not an error; a missing explicitly requested file is.
func (b *configBuilder) withTOML(explicitPath string) *configBuilder {
	path := explicitPath
	required := explicitPath != ""

	if path == "" {
		for _, cfg := range b.configs {
			if cfg.TOMLFilePath != "" {
				path = cfg.TOMLFilePath
				required = true
			}
		}
	}

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return b
		}
		path = defaultPath
	}

	tomlCfg, err := parseTOML(path, required)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	if tomlCfg != nil {
		b.configs = append(b.configs, tomlCfg)
	}

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaults())
	return b
}
