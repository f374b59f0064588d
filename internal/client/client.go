// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client: one persistent outbound
// connection to a sync server, rebuilt forever with a fixed retry delay.
//
// The connection lifecycle is Connecting → Authenticating → Streaming →
// (error) → Backoff → Connecting. There is no retry bound and no exponential
// backoff; the delay between attempts is constant.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/protocol"
	"github.com/MKhiriev/go-clip-sync/models"
)

// sendQueueSize bounds the monitor → client queue. When the client is
// disconnected long enough to fill it, further updates are dropped with a
// warning; clipboard state is overwritable, so the newest entry wins anyway.
const sendQueueSize = 100

// SyncClient replicates clipboard updates with one server and applies
// updates received back to the local clipboard accessor.
type SyncClient struct {
	cfg      config.Client
	syncCfg  config.Sync
	accessor clipboard.Accessor
	logger   *logger.Logger

	sendQueue chan protocol.Message

	mu               sync.Mutex
	lastSentChecksum string
	lastApplied      string
}

// NewSyncClient builds an idle client; Run starts the reconnect loop.
func NewSyncClient(cfg config.Client, syncCfg config.Sync, accessor clipboard.Accessor, log *logger.Logger) *SyncClient {
	return &SyncClient{
		cfg:       cfg,
		syncCfg:   syncCfg,
		accessor:  accessor,
		logger:    log.WithComponent("client"),
		sendQueue: make(chan protocol.Message, sendQueueSize),
	}
}

// Enqueue hands an outbound message to the connection loop. It never blocks;
// when the queue is full the message is dropped with a warning.
func (c *SyncClient) Enqueue(msg protocol.Message) bool {
	select {
	case c.sendQueue <- msg:
		return true
	default:
		c.logger.Warn().Str("variant", msg.Variant()).Msg("send queue full, dropping message")
		return false
	}
}

// NoteSent records the checksum of the last update handed to the server.
func (c *SyncClient) NoteSent(checksum string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSentChecksum = checksum
}

// LastSent returns the checksum recorded by NoteSent.
func (c *SyncClient) LastSent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSentChecksum
}

// LastApplied returns the locally computed checksum of the last remote
// update written to the clipboard. The monitor uses it to avoid echoing a
// remote update straight back to the server.
func (c *SyncClient) LastApplied() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastApplied
}

func (c *SyncClient) noteApplied(checksum string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastApplied = checksum
}

// Run is the persistent-reconnect loop. It returns only when ctx ends;
// every connection failure is absorbed into a fixed-delay retry.
func (c *SyncClient) Run(ctx context.Context) error {
	for {
		err := c.connectAndRun(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			c.logger.Error().Err(err).Msg("client connection error")
		default:
			c.logger.Info().Msg("client connection closed gracefully")
		}

		c.logger.Info().Dur("delay", c.syncCfg.RetryDelay()).Msg("reconnecting after delay")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.syncCfg.RetryDelay()):
		}
	}
}

// connectAndRun performs one Connecting → Authenticating → Streaming pass.
// A nil return is a clean close by the server.
func (c *SyncClient) connectAndRun(ctx context.Context) error {
	addr := net.JoinHostPort(c.cfg.ServerHost, fmt.Sprint(c.cfg.ServerPort))
	c.logger.Info().Str("addr", addr).Msg("connecting to server")

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	// make sure a cancelled context tears the socket down even while a
	// read or write is in flight
	stopWatch := context.AfterFunc(ctx, func() { conn.Close() })
	defer stopWatch()

	c.logger.Info().Msg("connected to server")

	reader := newFrameReader(conn)

	if c.cfg.AuthToken != "" {
		if err = c.authenticate(conn, reader); err != nil {
			return err
		}
	}

	return c.stream(ctx, conn, reader)
}

// authenticate sends the token and blocks for exactly one reply. Anything
// other than a successful AuthResponse aborts the attempt.
func (c *SyncClient) authenticate(conn net.Conn, reader *frameReader) error {
	frame, err := protocol.Encode(protocol.Auth{Token: c.cfg.AuthToken})
	if err != nil {
		return err
	}
	if _, err = conn.Write(frame); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}

	reply, err := reader.next()
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	response, ok := reply.(protocol.AuthResponse)
	if !ok {
		return fmt.Errorf("unexpected response to auth: %s", reply.Variant())
	}
	if !response.Success {
		return fmt.Errorf("authentication failed: %s", response.Message)
	}

	c.logger.Info().Msg("authentication successful")
	return nil
}

// stream races three event sources on the live connection: the outbound
// queue, inbound frames and the heartbeat timer.
func (c *SyncClient) stream(ctx context.Context, conn net.Conn, reader *frameReader) error {
	type inbound struct {
		msg protocol.Message
		err error
	}

	inboundCh := make(chan inbound)
	readerCtx, stopReader := context.WithCancel(ctx)
	defer stopReader()

	go func() {
		for {
			msg, err := reader.next()
			select {
			case inboundCh <- inbound{msg: msg, err: err}:
			case <-readerCtx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(c.syncCfg.HeartbeatInterval())
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-c.sendQueue:
			frame, err := protocol.Encode(msg)
			if err != nil {
				return err
			}
			if _, err = conn.Write(frame); err != nil {
				return fmt.Errorf("send message: %w", err)
			}

		case in := <-inboundCh:
			if in.err != nil {
				if errors.Is(in.err, errStreamClosed) {
					c.logger.Info().Msg("server closed connection")
					return nil
				}
				return fmt.Errorf("read from server: %w", in.err)
			}
			c.handleMessage(in.msg)

		case <-heartbeat.C:
			frame, err := protocol.Encode(protocol.Ping{})
			if err != nil {
				return err
			}
			if _, err = conn.Write(frame); err != nil {
				return fmt.Errorf("send heartbeat: %w", err)
			}
		}
	}
}

// handleMessage mirrors the server's dispatch for the client-facing subset.
// Nothing in here is fatal to the connection.
func (c *SyncClient) handleMessage(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.ClipboardUpdate:
		c.logger.Info().
			Str("source", m.Source).
			Str("content_type", m.ContentType).
			Str("checksum", m.Checksum).
			Msg("received clipboard update")
		c.applyUpdate(m)

	case protocol.Pong:
		// heartbeat response

	case protocol.ClipboardAck:
		if m.Success {
			c.logger.Info().Str("checksum", m.Checksum).Msg("clipboard sync acknowledged")
		} else {
			c.logger.Warn().Str("checksum", m.Checksum).Msg("clipboard sync failed")
		}

	case protocol.ErrorMessage:
		c.logger.Error().Str("message", m.Message).Msg("server error")

	default:
		c.logger.Warn().Str("variant", msg.Variant()).Msg("unexpected message from server")
	}
}

// applyUpdate writes a remote update to the local clipboard. Failures are
// logged and absorbed; the next update will try again.
func (c *SyncClient) applyUpdate(m protocol.ClipboardUpdate) {
	content, err := models.ContentFromBase64(models.ParseContentType(m.ContentType), m.Content)
	if err != nil {
		c.logger.Error().Err(err).Str("checksum", m.Checksum).Msg("error decoding clipboard update")
		return
	}

	if err = c.accessor.Write(content); err != nil {
		c.logger.Error().Err(err).Str("checksum", m.Checksum).Msg("error applying clipboard update")
		return
	}

	// recorded with the locally computed digest so the monitor's own
	// checksums compare equal and the update is not echoed back
	c.noteApplied(models.Checksum(m.Content))
}
