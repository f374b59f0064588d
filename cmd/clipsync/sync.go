// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/httpsync"
)

func newSyncCommand(cctx *commandContext) *cobra.Command {
	var serverURL string
	var listen bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "HTTP polling synchronization",
		Long: "HTTP polling synchronization. With --server the local clipboard is\n" +
			"polled and replicated against the given HTTP endpoint; with --listen this\n" +
			"process serves the HTTP API over the local history database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if listen {
				history, closeHistory, err := cctx.openHistory(ctx)
				if err != nil {
					return err
				}
				defer closeHistory()

				addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
				srv := httpsync.NewServer(addr, httpsync.NewHandler(history, cctx.logger), cctx.logger)
				return srv.Run(ctx)
			}

			if serverURL == "" {
				return fmt.Errorf("either --server URL or --listen is required")
			}

			poller := httpsync.NewPoller(
				serverURL,
				cfg.Sync.Interval(),
				clipboard.NewSystemAccessor(),
				config.SourceName(),
				cctx.logger,
			)
			return poller.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of the HTTP sync server")
	cmd.Flags().BoolVar(&listen, "listen", false, "Serve the HTTP sync API instead of polling")

	return cmd
}
