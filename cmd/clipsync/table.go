// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"encoding/base64"
	"strconv"
	"strings"
	"unicode"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/MKhiriev/go-clip-sync/models"
)

const previewWidth = 48

func renderEntryTable(entries []models.ClipboardEntry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"ID", "Type", "Source", "Captured", "Preview"})
	for _, e := range entries {
		tw.AppendRow(table.Row{
			e.ID,
			e.ContentType.String(),
			e.Source,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			contentPreview(e),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	return tw.Render()
}

// contentPreview renders a single-line glimpse of the payload. Binary and
// non-text entries show a size instead of their bytes.
func contentPreview(e models.ClipboardEntry) string {
	decoded, err := base64.StdEncoding.DecodeString(e.Content)
	if err != nil {
		return "<undecodable>"
	}
	if e.ContentType != models.ContentTypeText {
		return "<" + strconv.Itoa(len(decoded)) + " bytes>"
	}

	preview := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, string(decoded))

	runes := []rune(preview)
	if len(runes) > previewWidth {
		return string(runes[:previewWidth-1]) + "…"
	}
	return preview
}
