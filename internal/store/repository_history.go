// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/models"
)

// historyRepository is the sqlite-backed implementation of
// [HistoryRepository]. All mutations run under a single mutex — the store is
// a shared global sequence point for every session and the monitor, and it is
// not a hot path.
//
// Timestamps are persisted as UNIX nanoseconds so that two inserts in quick
// succession still have a defined age order for eviction.
type historyRepository struct {
	*DB
	maxHistory int
	logger     *logger.Logger

	mu sync.Mutex
}

// NewHistoryRepository constructs a [HistoryRepository] bounded to maxHistory
// rows. A non-positive maxHistory disables eviction.
func NewHistoryRepository(db *DB, maxHistory int, logger *logger.Logger) HistoryRepository {
	return &historyRepository{
		DB:         db,
		maxHistory: maxHistory,
		logger:     logger,
	}
}

// Insert implements [HistoryRepository]. The checksum lookup, the
// insert-or-refresh and the eviction all happen under the repository mutex,
// making an Insert atomic with respect to concurrent callers.
func (h *historyRepository) Insert(ctx context.Context, entry models.ClipboardEntry) (int64, error) {
	log := logger.FromContext(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	var existingID int64
	err := h.DB.QueryRowContext(ctx, findIDByChecksum, entry.Checksum).Scan(&existingID)
	switch {
	case err == nil:
		// same logical clipboard state: refresh its timestamp only
		if _, err = h.DB.ExecContext(ctx, refreshTimestamp, entry.Timestamp.UnixNano(), existingID); err != nil {
			log.Err(err).
				Str("func", "historyRepository.Insert").
				Str("checksum", entry.Checksum).
				Msg("failed to refresh timestamp of duplicate entry")
			return 0, fmt.Errorf("%w: refresh duplicate: %w", ErrStorage, err)
		}
		return existingID, nil

	case errors.Is(err, sql.ErrNoRows):
		// new content, fall through to the insert

	default:
		log.Err(err).
			Str("func", "historyRepository.Insert").
			Str("checksum", entry.Checksum).
			Msg("failed to look up entry by checksum")
		return 0, fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingQuery, err)
	}

	result, err := h.DB.ExecContext(ctx, insertEntry,
		entry.ContentType.String(),
		entry.Content,
		entry.Metadata,
		entry.Source,
		entry.Timestamp.UnixNano(),
		entry.Checksum,
	)
	if err != nil {
		log.Err(err).
			Str("func", "historyRepository.Insert").
			Str("checksum", entry.Checksum).
			Msg("failed to insert clipboard entry")
		return 0, fmt.Errorf("%w: insert: %w", ErrStorage, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert id: %w", ErrStorage, err)
	}

	if err = h.evict(ctx); err != nil {
		log.Err(err).
			Str("func", "historyRepository.Insert").
			Msg("failed to evict old entries")
		return 0, err
	}

	return id, nil
}

// evict trims the table down to maxHistory rows, oldest-by-timestamp first.
// Caller holds the mutex.
func (h *historyRepository) evict(ctx context.Context) error {
	if h.maxHistory <= 0 {
		return nil
	}

	if _, err := h.DB.ExecContext(ctx, evictOldEntries, h.maxHistory); err != nil {
		return fmt.Errorf("%w: evict: %w", ErrStorage, err)
	}

	return nil
}

// Search implements [HistoryRepository].
func (h *historyRepository) Search(ctx context.Context, query models.SearchQuery) ([]models.ClipboardEntry, error) {
	log := logger.FromContext(ctx)
	query = query.Normalized()

	sqlQuery, args, err := buildSearchQuery(query)
	if err != nil {
		log.Err(err).
			Str("func", "historyRepository.Search").
			Msg("failed to build search query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.DB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Err(err).
			Str("func", "historyRepository.Search").
			Msg("failed to execute search query")
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.ClipboardEntry, 0, query.Limit)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "historyRepository.Search").
				Msg("failed to scan clipboard history row")
			return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRow, scanErr)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingQuery, err)
	}

	return entries, nil
}

// Latest implements [HistoryRepository].
func (h *historyRepository) Latest(ctx context.Context) (*models.ClipboardEntry, error) {
	sqlQuery, args, err := buildLatestQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	row := h.DB.QueryRowContext(ctx, sqlQuery, args...)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrStorage, ErrScanningRow, err)
	}

	return &entry, nil
}

// Count implements [HistoryRepository].
func (h *historyRepository) Count(ctx context.Context) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var count int64
	if err := h.DB.QueryRowContext(ctx, countEntries).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w: %w", ErrStorage, ErrExecutingQuery, err)
	}

	return count, nil
}

// Clear implements [HistoryRepository].
func (h *historyRepository) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.DB.ExecContext(ctx, clearEntries); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrStorage, err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.ClipboardEntry, error) {
	var (
		entry       models.ClipboardEntry
		contentType string
		timestampNs int64
	)

	err := row.Scan(
		&entry.ID,
		&contentType,
		&entry.Content,
		&entry.Metadata,
		&entry.Source,
		&timestampNs,
		&entry.Checksum,
	)
	if err != nil {
		return models.ClipboardEntry{}, err
	}

	entry.ContentType = models.ParseContentType(contentType)
	entry.Timestamp = time.Unix(0, timestampNs).UTC()

	return entry, nil
}
