// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/protocol"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

const testTimeout = 2 * time.Second

// startTestServer runs a server on an ephemeral loopback port over an
// in-memory store and tears both down with the test.
func startTestServer(t *testing.T, authToken string) (*SyncServer, store.HistoryRepository) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	db, err := store.NewConnectSQLite(ctx, ":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	history := store.NewHistoryRepository(db, 100, logger.Nop())

	srv := NewSyncServer(config.Server{Host: "127.0.0.1", Port: 0, AuthToken: authToken}, history, logger.Nop())
	go srv.Run(ctx)

	require.Eventually(t, func() bool { return srv.Addr() != nil },
		testTimeout, 10*time.Millisecond, "server never bound its listener")

	return srv, history
}

// wireClient is a minimal frame-level peer for driving a session from tests.
type wireClient struct {
	t       *testing.T
	conn    net.Conn
	pending []byte
}

func dialTestServer(t *testing.T, srv *SyncServer) *wireClient {
	t.Helper()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &wireClient{t: t, conn: conn}
}

func (c *wireClient) send(msg protocol.Message) {
	c.t.Helper()

	frame, err := protocol.Encode(msg)
	require.NoError(c.t, err)

	_, err = c.conn.Write(frame)
	require.NoError(c.t, err)
}

func (c *wireClient) sendRaw(frame []byte) {
	c.t.Helper()

	_, err := c.conn.Write(frame)
	require.NoError(c.t, err)
}

// recv blocks for the next complete frame.
func (c *wireClient) recv() protocol.Message {
	c.t.Helper()

	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(testTimeout)))

	buf := make([]byte, 4096)
	for {
		if msg, consumed, err := protocol.Decode(c.pending); !errors.Is(err, protocol.ErrNeedMoreData) {
			require.NoError(c.t, err)
			c.pending = c.pending[consumed:]
			return msg
		}

		n, err := c.conn.Read(buf)
		require.NoError(c.t, err, "reading frame from server")
		c.pending = append(c.pending, buf[:n]...)
	}
}

func (c *wireClient) update(text string) protocol.ClipboardUpdate {
	content := models.TextContent(text).ToBase64()
	return protocol.ClipboardUpdate{
		ContentType: "text",
		Content:     content,
		Timestamp:   time.Now().UTC(),
		Source:      "test-peer",
		Checksum:    models.Checksum(content),
	}
}

func TestServer_NoTokenSessionStartsAuthenticated(t *testing.T) {
	srv, history := startTestServer(t, "")
	client := dialTestServer(t, srv)

	update := client.update("open access")
	client.send(update)

	ack, ok := client.recv().(protocol.ClipboardAck)
	require.True(t, ok, "expected an ack")
	assert.True(t, ack.Success)
	assert.Equal(t, update.Checksum, ack.Checksum)

	count, err := history.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestServer_AuthGating(t *testing.T) {
	srv, history := startTestServer(t, "secret")
	client := dialTestServer(t, srv)

	// state-changing messages before auth are dropped without a reply;
	// the Ping/Pong pair proves the update produced nothing
	client.send(client.update("before auth"))
	client.send(protocol.Ping{})
	_, ok := client.recv().(protocol.Pong)
	require.True(t, ok, "expected the Pong, not a reply to the dropped update")

	count, err := history.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count, "unauthenticated update must not be stored")

	// a wrong token is answered but does not authenticate
	client.send(protocol.Auth{Token: "wrong"})
	denied, ok := client.recv().(protocol.AuthResponse)
	require.True(t, ok)
	assert.False(t, denied.Success)

	client.send(client.update("still rejected"))
	client.send(protocol.Ping{})
	_, ok = client.recv().(protocol.Pong)
	require.True(t, ok)

	count, err = history.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	// the session survives the failed attempt and accepts the right token
	client.send(protocol.Auth{Token: "secret"})
	granted, ok := client.recv().(protocol.AuthResponse)
	require.True(t, ok)
	require.True(t, granted.Success)

	update := client.update("after auth")
	client.send(update)
	ack, ok := client.recv().(protocol.ClipboardAck)
	require.True(t, ok)
	assert.True(t, ack.Success)

	count, err = history.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestServer_BroadcastReachesOtherSessionsOnly(t *testing.T) {
	srv, _ := startTestServer(t, "")

	sender := dialTestServer(t, srv)
	receiver := dialTestServer(t, srv)

	// receiver must be subscribed before the update lands
	receiver.send(protocol.Ping{})
	_, ok := receiver.recv().(protocol.Pong)
	require.True(t, ok)

	update := sender.update("shared state")
	sender.send(update)

	ack, ok := sender.recv().(protocol.ClipboardAck)
	require.True(t, ok)
	require.True(t, ack.Success)

	relayed, ok := receiver.recv().(protocol.ClipboardUpdate)
	require.True(t, ok, "expected the relayed update")
	assert.Equal(t, update.Checksum, relayed.Checksum)
	assert.Equal(t, update.Content, relayed.Content)
	assert.Equal(t, "test-peer", relayed.Source)

	// the sender gets no echo: the next reply it sees is the Pong
	sender.send(protocol.Ping{})
	_, ok = sender.recv().(protocol.Pong)
	assert.True(t, ok, "sender must not receive its own update back")
}

func TestServer_HistoryRequest(t *testing.T) {
	srv, _ := startTestServer(t, "")
	client := dialTestServer(t, srv)

	for _, text := range []string{"first", "second", "third"} {
		client.send(client.update(text))
		ack, ok := client.recv().(protocol.ClipboardAck)
		require.True(t, ok)
		require.True(t, ack.Success)
	}

	client.send(protocol.HistoryRequest{Limit: 2})

	response, ok := client.recv().(protocol.HistoryResponse)
	require.True(t, ok)
	require.Len(t, response.Entries, 2)

	// newest first
	third := models.TextContent("third").ToBase64()
	assert.Equal(t, third, response.Entries[0].Content)
}

func TestServer_FramingErrorClosesSession(t *testing.T) {
	srv, _ := startTestServer(t, "")
	client := dialTestServer(t, srv)

	// valid length prefix, garbage payload
	client.sendRaw([]byte{0x00, 0x00, 0x00, 0x03, 'z', 'z', 'z'})

	require.NoError(t, client.conn.SetReadDeadline(time.Now().Add(testTimeout)))
	buf := make([]byte, 16)
	_, err := client.conn.Read(buf)
	assert.Error(t, err, "server should close the connection on a framing error")
}

func TestServer_LocalBroadcastReachesSessions(t *testing.T) {
	srv, _ := startTestServer(t, "")
	client := dialTestServer(t, srv)

	// make sure the session is registered before broadcasting
	client.send(protocol.Ping{})
	_, ok := client.recv().(protocol.Pong)
	require.True(t, ok)

	content := models.TextContent("local change").ToBase64()
	srv.Broadcast(models.NewClipboardEntry(models.ContentTypeText, content, "local"))

	relayed, ok := client.recv().(protocol.ClipboardUpdate)
	require.True(t, ok)
	assert.Equal(t, content, relayed.Content)
	assert.Equal(t, "local", relayed.Source)
}
