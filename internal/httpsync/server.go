// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpsync

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
)

// Server runs the polling API on one HTTP endpoint.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer binds the handler to addr ("host:port").
func NewServer(addr string, handler *Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler.Init(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log.WithComponent("httpsync-server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http sync server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
