// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/daemon"
)

func newStartCommand(cctx *commandContext) *cobra.Command {
	var serverOnly bool
	var clientOnly bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the clipboard sync daemon",
		Long: "Run the clipboard sync daemon. By default both the sync server and the\n" +
			"sync client run in one process; --server or --client restricts the daemon\n" +
			"to a single role.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverOnly && clientOnly {
				return fmt.Errorf("--server and --client are mutually exclusive")
			}

			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			mode := daemon.ModeBoth
			switch {
			case serverOnly:
				mode = daemon.ModeServer
			case clientOnly:
				mode = daemon.ModeClient
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d := daemon.New(cfg, mode, clipboard.NewSystemAccessor(), cctx.logger)
			return d.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&serverOnly, "server", false, "Run only the sync server")
	cmd.Flags().BoolVar(&clientOnly, "client", false, "Run only the sync client")

	return cmd
}
