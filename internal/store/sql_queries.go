// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-clip-sync/models"
)

const (
	findIDByChecksum = `SELECT id FROM clipboard_history WHERE checksum = ? LIMIT 1;`

	refreshTimestamp = `UPDATE clipboard_history SET timestamp = ? WHERE id = ?;`

	insertEntry = `INSERT INTO clipboard_history (content_type, content, metadata, source, timestamp, checksum)
		VALUES (?, ?, ?, ?, ?, ?);`

	// age-only eviction: everything outside the N newest rows goes,
	// irrespective of how often a row was read
	evictOldEntries = `DELETE FROM clipboard_history
		WHERE id NOT IN (
			SELECT id FROM clipboard_history
			ORDER BY timestamp DESC, id DESC
			LIMIT ?
		);`

	countEntries = `SELECT COUNT(*) FROM clipboard_history;`

	clearEntries = `DELETE FROM clipboard_history;`
)

var historyColumns = []string{"id", "content_type", "content", "metadata", "source", "timestamp", "checksum"}

// buildSearchQuery assembles the AND-combined filter query for Search.
// Absent filters contribute no predicate at all.
func buildSearchQuery(query models.SearchQuery) (string, []any, error) {
	builder := sq.Select(historyColumns...).
		From("clipboard_history").
		OrderBy("timestamp DESC, id DESC").
		Limit(uint64(query.Limit)).
		Offset(uint64(query.Offset))

	if query.ContentType != nil {
		builder = builder.Where(sq.Eq{"content_type": query.ContentType.String()})
	}
	if query.Source != nil {
		builder = builder.Where(sq.Eq{"source": *query.Source})
	}
	if query.SearchText != nil {
		// substring match over the stored base64 text; only reliable for
		// text payloads
		builder = builder.Where(sq.Like{"content": "%" + *query.SearchText + "%"})
	}

	return builder.ToSql()
}

func buildLatestQuery() (string, []any, error) {
	return sq.Select(historyColumns...).
		From("clipboard_history").
		OrderBy("timestamp DESC, id DESC").
		Limit(1).
		ToSql()
}
