// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package monitor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/protocol"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

// recordingSink captures what the monitor hands to the sync client.
type recordingSink struct {
	enqueued    []protocol.Message
	sent        []string
	full        bool
	lastApplied string
}

func (r *recordingSink) Enqueue(msg protocol.Message) bool {
	if r.full {
		return false
	}
	r.enqueued = append(r.enqueued, msg)
	return true
}

func (r *recordingSink) NoteSent(checksum string) { r.sent = append(r.sent, checksum) }
func (r *recordingSink) LastApplied() string      { return r.lastApplied }

type recordingBroadcaster struct {
	entries []models.ClipboardEntry
}

func (r *recordingBroadcaster) Broadcast(entry models.ClipboardEntry) {
	r.entries = append(r.entries, entry)
}

func newTestHistory(t *testing.T) store.HistoryRepository {
	t.Helper()

	db, err := store.NewConnectSQLite(context.Background(), ":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.NewHistoryRepository(db, 100, logger.Nop())
}

func newTestMonitor(t *testing.T, fake *clipboard.Fake, opts Options) *ChangeMonitor {
	t.Helper()

	opts.Accessor = fake
	if opts.Source == "" {
		opts.Source = "test-machine"
	}
	return NewChangeMonitor(opts, logger.Nop())
}

func TestTick_DetectsChangeOnce(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	sink := &recordingSink{}
	broadcaster := &recordingBroadcaster{}
	history := newTestHistory(t)

	m := newTestMonitor(t, fake, Options{History: history, Sink: sink, Broadcaster: broadcaster})

	fake.SetText("fresh content")
	m.tick(ctx)
	m.tick(ctx)
	m.tick(ctx)

	require.Len(t, sink.enqueued, 1, "unchanged content must not re-emit")
	require.Len(t, broadcaster.entries, 1)

	update, ok := sink.enqueued[0].(protocol.ClipboardUpdate)
	require.True(t, ok)
	assert.Equal(t, "text", update.ContentType)
	assert.Equal(t, models.TextContent("fresh content").ToBase64(), update.Content)
	assert.Equal(t, "test-machine", update.Source)
	assert.Equal(t, []string{update.Checksum}, sink.sent)

	count, err := history.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestTick_EmitsEachDistinctState(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	sink := &recordingSink{}

	m := newTestMonitor(t, fake, Options{Sink: sink})

	fake.SetText("one")
	m.tick(ctx)
	fake.SetText("two")
	m.tick(ctx)
	fake.SetText("one")
	m.tick(ctx)

	assert.Len(t, sink.enqueued, 3, "every transition counts, including back to earlier content")
}

func TestTick_ClearedClipboardResetsState(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	sink := &recordingSink{}

	m := newTestMonitor(t, fake, Options{Sink: sink})

	fake.SetText("repeat me")
	m.tick(ctx)
	fake.Empty()
	m.tick(ctx)
	fake.SetText("repeat me")
	m.tick(ctx)

	assert.Len(t, sink.enqueued, 2, "re-copied content after a clear is a new change")
}

func TestTick_AccessErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	sink := &recordingSink{}

	m := newTestMonitor(t, fake, Options{Sink: sink})

	fake.SetText("stable")
	m.tick(ctx)
	require.Len(t, sink.enqueued, 1)

	fake.ReadErr = assert.AnError
	m.tick(ctx)
	fake.ReadErr = nil
	m.tick(ctx)

	assert.Len(t, sink.enqueued, 1, "a transient error must not re-emit unchanged content")
}

func TestTick_SkipsOversizedContent(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	sink := &recordingSink{}
	history := newTestHistory(t)

	m := newTestMonitor(t, fake, Options{History: history, Sink: sink, MaxContentBytes: 64})

	fake.SetText(strings.Repeat("x", 65))
	m.tick(ctx)
	m.tick(ctx)

	assert.Empty(t, sink.enqueued)

	count, err := history.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// smaller content still goes through afterwards
	fake.SetText("fits")
	m.tick(ctx)
	assert.Len(t, sink.enqueued, 1)
}

func TestTick_SkipsEchoOfAppliedUpdate(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	broadcaster := &recordingBroadcaster{}
	history := newTestHistory(t)

	content := models.TextContent("came from the server")
	sink := &recordingSink{lastApplied: models.Checksum(content.ToBase64())}

	m := newTestMonitor(t, fake, Options{History: history, Sink: sink, Broadcaster: broadcaster})

	fake.Set(content)
	m.tick(ctx)

	assert.Empty(t, sink.enqueued, "a just-applied remote update must not bounce back")

	// it still lands in local history and the local fan-out
	count, err := history.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Len(t, broadcaster.entries, 1)
}

func TestTick_NoteSentOnlyOnAcceptedEnqueue(t *testing.T) {
	ctx := context.Background()
	fake := clipboard.NewFake()
	sink := &recordingSink{full: true}

	m := newTestMonitor(t, fake, Options{Sink: sink})

	fake.SetText("dropped on the floor")
	m.tick(ctx)

	assert.Empty(t, sink.sent, "a dropped update must not be recorded as sent")
}

func TestTick_NoCollaboratorsIsHarmless(t *testing.T) {
	fake := clipboard.NewFake()
	m := newTestMonitor(t, fake, Options{})

	fake.SetText("observed only")
	m.tick(context.Background())
}
