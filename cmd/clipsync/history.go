// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-clip-sync/models"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var contentType string
	var source string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent clipboard history",
		RunE: func(cmd *cobra.Command, args []string) error {
			history, closeHistory, err := cctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			query := models.SearchQuery{Limit: limit}
			if contentType != "" {
				ct := models.ParseContentType(contentType)
				query.ContentType = &ct
			}
			if source != "" {
				query.Source = &source
			}

			entries, err := history.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("history is empty")
				return nil
			}

			cmd.Println(renderEntryTable(entries))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Filter by content type (text, image, html, rtf, files)")
	cmd.Flags().StringVar(&source, "source", "", "Filter by originating machine")

	return cmd
}

func newSearchCommand(cctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search text entries for a substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			needle := args[0]
			if needle == "" {
				return fmt.Errorf("search text must not be empty")
			}

			history, closeHistory, err := cctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer closeHistory()

			// The store keeps content base64-encoded, so the substring
			// match happens here over the decoded text.
			textType := models.ContentTypeText
			entries, err := history.Search(cmd.Context(), models.SearchQuery{
				ContentType: &textType,
				Limit:       models.DefaultSearchLimit,
			})
			if err != nil {
				return err
			}

			matched := make([]models.ClipboardEntry, 0, len(entries))
			for _, e := range entries {
				decoded, err := base64.StdEncoding.DecodeString(e.Content)
				if err != nil {
					continue
				}
				if strings.Contains(string(decoded), needle) {
					matched = append(matched, e)
					if len(matched) == limit {
						break
					}
				}
			}

			if len(matched) == 0 {
				cmd.Println("no matching entries")
				return nil
			}

			cmd.Println(renderEntryTable(matched))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches to show")

	return cmd
}
