// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/protocol"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

// readBufferSize is the socket read chunk size.
const readBufferSize = 8192

// session is the per-connection state machine on the server side.
//
// Two concurrent activities share the one socket: the inbound read loop
// (framing + dispatch) and the broadcast relay draining the hub
// subscription. They never interleave partial writes — every outbound frame
// goes through writeMessage, which serializes on writeMu.
//
// Auth model: with no configured token the session starts authenticated.
// A failed Auth leaves the session open but inert — state-changing messages
// from an unauthenticated peer are dropped without a reply, so nothing is
// leaked to a peer that has not proven itself.
type session struct {
	conn      net.Conn
	authToken string
	history   store.HistoryRepository
	hub       *Hub
	sub       *Subscription
	logger    *logger.Logger

	authenticated atomic.Bool
	writeMu       sync.Mutex
}

func newSession(conn net.Conn, authToken string, history store.HistoryRepository, hub *Hub, log *logger.Logger) *session {
	s := &session{
		conn:      conn,
		authToken: authToken,
		history:   history,
		hub:       hub,
		sub:       hub.Subscribe(),
		logger:    log.WithComponent("session"),
	}

	// no token configured: the session starts out authenticated
	s.authenticated.Store(authToken == "")

	return s
}

// run services the connection until it ends. It owns the connection and the
// subscription and releases both on return.
func (s *session) run(ctx context.Context) {
	defer s.conn.Close()
	defer s.sub.Close()

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		s.relayBroadcasts()
	}()

	s.readLoop(ctx)

	// unblocks the relay: the deferred sub.Close closes its channel, and
	// an in-flight write fails against the closed connection
	s.sub.Close()
	<-relayDone
}

// readLoop defragments inbound bytes into frames and dispatches them.
// A zero-length read, a read error or a framing error ends the session.
func (s *session) readLoop(ctx context.Context) {
	buf := make([]byte, readBufferSize)
	var pending []byte

	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info().Msg("connection closed by peer")
			} else {
				s.logger.Error().Err(err).Msg("error reading from socket")
			}
			return
		}

		pending = append(pending, buf[:n]...)

		for {
			msg, consumed, decodeErr := protocol.Decode(pending)
			if errors.Is(decodeErr, protocol.ErrNeedMoreData) {
				break
			}
			if decodeErr != nil {
				// malformed payload is fatal for this connection only
				s.logger.Error().Err(decodeErr).Msg("framing error, closing session")
				return
			}

			pending = pending[consumed:]

			if err = s.handleMessage(ctx, msg); err != nil {
				s.logger.Error().Err(err).Msg("error writing reply, closing session")
				return
			}
		}
	}
}

// handleMessage dispatches one inbound message. A returned error is a write
// failure and ends the session; everything else is absorbed here.
func (s *session) handleMessage(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.Auth:
		return s.handleAuth(m)

	case protocol.Ping:
		// honored in every auth state to keep the connection alive
		return s.writeMessage(protocol.Pong{})

	case protocol.ClipboardUpdate:
		if !s.authenticated.Load() {
			s.logger.Debug().Msg("dropping clipboard update from unauthenticated peer")
			return nil
		}
		return s.handleClipboardUpdate(ctx, m)

	case protocol.HistoryRequest:
		if !s.authenticated.Load() {
			s.logger.Debug().Msg("dropping history request from unauthenticated peer")
			return nil
		}
		return s.handleHistoryRequest(ctx, m)

	default:
		s.logger.Warn().Str("variant", msg.Variant()).Msg("unexpected message type")
		return nil
	}
}

func (s *session) handleAuth(m protocol.Auth) error {
	success := s.authToken == "" ||
		subtle.ConstantTimeCompare([]byte(m.Token), []byte(s.authToken)) == 1

	if success {
		s.authenticated.Store(true)
	}
	// a failed attempt leaves the previous state untouched; the session
	// stays open and keeps rejecting state-changing messages

	response := protocol.AuthResponse{Success: success}
	if success {
		response.Message = "Authentication successful"
	} else {
		response.Message = "Authentication failed"
		s.logger.Warn().Msg("authentication failed")
	}

	return s.writeMessage(response)
}

func (s *session) handleClipboardUpdate(ctx context.Context, m protocol.ClipboardUpdate) error {
	entry := models.ClipboardEntry{
		ContentType: models.ParseContentType(m.ContentType),
		Content:     m.Content,
		Source:      m.Source,
		Timestamp:   m.Timestamp,
		Checksum:    m.Checksum,
	}

	_, err := s.history.Insert(ctx, entry)
	if err != nil {
		// storage trouble is not fatal to the session; the peer learns of
		// the failure through the ack
		s.logger.Error().Err(err).Str("checksum", m.Checksum).Msg("error storing clipboard entry")
	}

	ack := protocol.ClipboardAck{Checksum: m.Checksum, Success: err == nil}
	if writeErr := s.writeMessage(ack); writeErr != nil {
		return writeErr
	}

	if err == nil {
		// hand to the fan-out so every other session sees the entry;
		// the origin already has this clipboard state
		s.hub.Broadcast(entry, s.sub)
	}

	return nil
}

func (s *session) handleHistoryRequest(ctx context.Context, m protocol.HistoryRequest) error {
	entries, err := s.history.Search(ctx, models.SearchQuery{Limit: m.Limit, Offset: m.Offset})
	if err != nil {
		s.logger.Error().Err(err).Msg("error querying history")
		return s.writeMessage(protocol.ErrorMessage{Message: "history query failed"})
	}

	response := protocol.HistoryResponse{Entries: make([]protocol.HistoryEntry, 0, len(entries))}
	for _, entry := range entries {
		response.Entries = append(response.Entries, protocol.HistoryEntry{
			ID:          entry.ID,
			ContentType: entry.ContentType.String(),
			Content:     entry.Content,
			Source:      entry.Source,
			Timestamp:   entry.Timestamp,
			Checksum:    entry.Checksum,
		})
	}

	return s.writeMessage(response)
}

// relayBroadcasts drains the hub subscription and forwards entries to the
// peer. Entries arriving while the session is unauthenticated are dropped
// for this session, not queued.
func (s *session) relayBroadcasts() {
	for entry := range s.sub.C() {
		if !s.authenticated.Load() {
			continue
		}

		update := protocol.ClipboardUpdate{
			ContentType: entry.ContentType.String(),
			Content:     entry.Content,
			Timestamp:   entry.Timestamp,
			Source:      entry.Source,
			Checksum:    entry.Checksum,
		}

		if err := s.writeMessage(update); err != nil {
			s.logger.Error().Err(err).Msg("error sending clipboard update")
			// kick the read loop so the whole session winds down
			s.conn.Close()
			return
		}
	}
}

// writeMessage encodes and writes one frame. Serialized on writeMu so the
// read-loop replies and the broadcast relay never interleave partial writes.
func (s *session) writeMessage(msg protocol.Message) error {
	frame, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.conn.Write(frame)
	return err
}
