// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/store"
)

// commandContext carries the lazily loaded configuration shared by every
// subcommand. The config file path comes from the persistent --config flag;
// everything else is resolved by the config package itself.
type commandContext struct {
	configFlag *string
	cfg        *config.StructuredConfig
	logger     *logger.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		logger:     logger.NewLogger("clipsync"),
	}
}

func (c *commandContext) ensureConfig() (*config.StructuredConfig, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.GetStructuredConfig(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// openHistory opens the configured history database for one-shot store
// commands. The returned closer releases the underlying connection.
func (c *commandContext) openHistory(ctx context.Context) (store.HistoryRepository, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := cfg.GetDatabasePath()
	if err != nil {
		return nil, nil, err
	}
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := store.NewConnectSQLite(openCtx, dbPath, c.logger)
	if err != nil {
		return nil, nil, err
	}
	return store.NewHistoryRepository(db, cfg.Storage.MaxHistory, c.logger), db.Close, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	return cmd.Annotations["skipConfigLoad"] == "true"
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "clipsync",
		Short:         "Clipboard synchronization daemon and history tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newStartCommand(ctx))
	rootCmd.AddCommand(newSyncCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newClearCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
