// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package monitor implements the clipboard change monitor: a fixed-interval
// poll loop that turns local clipboard changes into history entries and
// outbound sync updates.
package monitor

import (
	"context"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/protocol"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

// UpdateSink receives outbound clipboard updates. Implemented by the sync
// client.
type UpdateSink interface {
	// Enqueue hands off one outbound message without blocking.
	Enqueue(msg protocol.Message) bool

	// NoteSent records the checksum of the last update handed off.
	NoteSent(checksum string)

	// LastApplied returns the checksum of the last remote update applied
	// to the local clipboard, so the monitor can skip echoing it back.
	LastApplied() string
}

// Broadcaster receives locally observed entries for in-process fan-out.
// Implemented by the sync server.
type Broadcaster interface {
	Broadcast(entry models.ClipboardEntry)
}

// Options wires a ChangeMonitor to its collaborators. History, Sink and
// Broadcaster are each optional; the run mode decides which are present.
type Options struct {
	Accessor    clipboard.Accessor
	History     store.HistoryRepository
	Sink        UpdateSink
	Broadcaster Broadcaster

	// Source names this machine in the entries it produces.
	Source string

	// Interval is the poll cadence.
	Interval time.Duration

	// MaxContentBytes skips clipboard payloads larger than this.
	// Non-positive disables the limit.
	MaxContentBytes int
}

// ChangeMonitor polls the clipboard accessor and emits a new entry whenever
// the content checksum moves. Errors reading the clipboard are logged and
// retried on the next tick; they never stop the loop.
type ChangeMonitor struct {
	opts   Options
	logger *logger.Logger

	// lastChecksum is the digest observed on the previous tick; nil means
	// the clipboard was empty (or never read), so any non-empty read is a
	// change.
	lastChecksum *string
}

// NewChangeMonitor builds an idle monitor; Run starts polling.
func NewChangeMonitor(opts Options, log *logger.Logger) *ChangeMonitor {
	return &ChangeMonitor{
		opts:   opts,
		logger: log.WithComponent("monitor"),
	}
}

// Run polls until ctx ends.
func (m *ChangeMonitor) Run(ctx context.Context) error {
	m.logger.Info().Dur("interval", m.opts.Interval).Msg("starting clipboard monitor")

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.tick(ctx)
		}
	}
}

// tick performs one poll. All failure paths return with state suitable for
// the next tick.
func (m *ChangeMonitor) tick(ctx context.Context) {
	checksum, err := m.opts.Accessor.Checksum()
	if err != nil {
		// keep lastChecksum: the previous observation is assumed still
		// valid, the next tick retries
		m.logger.Error().Err(err).Msg("error checking clipboard")
		return
	}

	if checksum == nil {
		if m.lastChecksum != nil {
			m.logger.Info().Msg("clipboard cleared")
			m.lastChecksum = nil
		}
		return
	}

	if m.lastChecksum != nil && *m.lastChecksum == *checksum {
		return
	}

	// record the new digest before reading content, so a failed read does
	// not repeat forever on unchanged content
	m.lastChecksum = checksum

	content, err := m.opts.Accessor.Read()
	if err != nil {
		m.logger.Error().Err(err).Msg("error reading clipboard content")
		return
	}
	if content == nil {
		m.logger.Warn().Msg("clipboard checksum present but content is empty")
		return
	}

	if m.opts.MaxContentBytes > 0 && len(content.Data) > m.opts.MaxContentBytes {
		m.logger.Warn().
			Int("size", len(content.Data)).
			Int("limit", m.opts.MaxContentBytes).
			Msg("clipboard content exceeds size limit, skipping")
		return
	}

	entry := models.NewClipboardEntry(content.Type, content.ToBase64(), m.opts.Source)
	m.logger.Info().
		Str("content_type", entry.ContentType.String()).
		Str("checksum", entry.Checksum).
		Msg("detected local clipboard change")

	if m.opts.History != nil {
		if _, err = m.opts.History.Insert(ctx, entry); err != nil {
			m.logger.Error().Err(err).Msg("failed to store clipboard entry")
		}
	}

	if m.opts.Broadcaster != nil {
		m.opts.Broadcaster.Broadcast(entry)
	}

	if m.opts.Sink != nil {
		if entry.Checksum == m.opts.Sink.LastApplied() {
			// this content just arrived from the server; sending it back
			// would only bounce it around
			return
		}

		update := protocol.ClipboardUpdate{
			ContentType: entry.ContentType.String(),
			Content:     entry.Content,
			Timestamp:   entry.Timestamp,
			Source:      entry.Source,
			Checksum:    entry.Checksum,
		}
		if m.opts.Sink.Enqueue(update) {
			m.opts.Sink.NoteSent(entry.Checksum)
		}
	}
}
