// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newClearCommand(cctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all clipboard history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				cmd.Print("delete all clipboard history? [y/N] ")
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read confirmation: %w", err)
				}
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					cmd.Println("aborted")
					return nil
				}
			}

			history, closeHistory, err := cctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			if err := history.Clear(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("history cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func newStatsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			dbPath, err := cfg.GetDatabasePath()
			if err != nil {
				return err
			}

			history, closeHistory, err := cctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			count, err := history.Count(cmd.Context())
			if err != nil {
				return err
			}
			latest, err := history.Latest(cmd.Context())
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendRow(table.Row{"Entries", count})
			tw.AppendRow(table.Row{"Max history", cfg.Storage.MaxHistory})
			tw.AppendRow(table.Row{"Database", dbPath})
			if latest != nil {
				tw.AppendRow(table.Row{"Newest entry", latest.Timestamp.Local().Format("2006-01-02 15:04:05")})
				tw.AppendRow(table.Row{"Newest source", latest.Source})
			}
			cmd.Println(tw.Render())
			return nil
		},
	}
}
