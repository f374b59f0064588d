// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-clip-sync/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	var show bool
	var initFile bool

	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or initialize the configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case initFile:
				return initConfigFile(cmd, *cctx.configFlag)
			case show:
				return showConfig(cmd, cctx)
			default:
				// no flag behaves like --show
				return showConfig(cmd, cctx)
			}
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "Print the effective configuration")
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default configuration file")
	cmd.MarkFlagsMutuallyExclusive("show", "init")

	return cmd
}

func showConfig(cmd *cobra.Command, cctx *commandContext) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}

	rendered, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	cmd.Print(string(rendered))
	return nil
}

func initConfigFile(cmd *cobra.Command, target string) error {
	if target == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("determine default config path: %w", err)
		}
		target = defaultPath
	}

	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("config file already exists at %s", target)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("check config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := config.WriteDefault(target); err != nil {
		return err
	}

	cmd.Printf("wrote default configuration to %s\n", target)
	return nil
}
