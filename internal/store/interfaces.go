// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-clip-sync/models"
)

// HistoryRepository is the deduplicating clipboard log shared by every
// session and the change monitor. Implementations serialize all mutations
// internally; the checksum-uniqueness invariant holds under concurrent
// callers.
type HistoryRepository interface {
	// Insert persists entry, deduplicating by checksum. Inserting an entry
	// whose checksum already exists refreshes the stored timestamp and
	// returns the existing id. After every insert the oldest rows beyond
	// the configured history bound are evicted.
	Insert(ctx context.Context, entry models.ClipboardEntry) (int64, error)

	// Search returns entries matching query, newest first.
	Search(ctx context.Context, query models.SearchQuery) ([]models.ClipboardEntry, error)

	// Latest returns the newest entry, or nil when the store is empty.
	Latest(ctx context.Context) (*models.ClipboardEntry, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// Clear drops all entries.
	Clear(ctx context.Context) error
}
