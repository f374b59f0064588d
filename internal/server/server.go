// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server implements the sync server: a TCP accept loop that owns the
// broadcast fan-out and spawns one session per connected client.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

// acceptRetryDelay is the fixed pause after a failed accept, so a persistent
// accept error cannot spin the loop.
const acceptRetryDelay = time.Second

// SyncServer accepts sync connections and fans clipboard updates out to all
// of them. Per-connection failures stay inside their session; the accept
// loop itself never stops because one accept failed.
type SyncServer struct {
	cfg     config.Server
	history store.HistoryRepository
	hub     *Hub
	logger  *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewSyncServer wires a server to its store. Run starts serving.
func NewSyncServer(cfg config.Server, history store.HistoryRepository, log *logger.Logger) *SyncServer {
	return &SyncServer{
		cfg:     cfg,
		history: history,
		hub:     NewHub(log),
		logger:  log.WithComponent("server"),
	}
}

// Subscribe exposes the broadcast channel to in-process observers, so the
// daemon's monitor can watch history updates without going through the
// network stack.
func (s *SyncServer) Subscribe() *Subscription {
	return s.hub.Subscribe()
}

// Broadcast injects a locally observed entry into the fan-out, reaching
// every connected session.
func (s *SyncServer) Broadcast(entry models.ClipboardEntry) {
	s.hub.Broadcast(entry, nil)
}

// Addr returns the bound listen address, or nil before Run has bound it.
// Useful with a configured port of 0.
func (s *SyncServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run binds the listening endpoint and serves until ctx is cancelled.
// Accept failures are logged and accepting continues after a fixed delay.
func (s *SyncServer) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind sync server on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("clipboard sync server listening")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			if ctx.Err() != nil {
				return nil
			}

			s.logger.Error().Err(acceptErr).Msg("error accepting connection")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(acceptRetryDelay):
			}
			continue
		}

		s.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("new connection")

		sess := newSession(conn, s.cfg.AuthToken, s.history, s.hub, s.logger)
		go sess.run(ctx)
	}
}
