// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package protocol defines the sync wire vocabulary and its framing.
//
// Every message travels as one frame: a 4-byte big-endian payload length
// followed by a JSON payload. The JSON shape is externally tagged — struct
// variants encode as a single-key object ({"Auth":{"token":"..."}}) and the
// unit variants Ping and Pong encode as bare JSON strings ("Ping"). Field
// names and content-type string values are the compatibility surface shared
// with every deployed peer and must round-trip exactly.
package protocol

import "time"

// Message is the tagged union of everything that can cross a sync
// connection, in either direction.
type Message interface {
	// Variant returns the wire tag of the message, e.g. "Auth" or "Ping".
	Variant() string
}

// Auth carries the shared-secret token. First message a client sends when a
// token is configured.
type Auth struct {
	Token string `json:"token"`
}

// AuthResponse is the server's verdict on an Auth message.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ClipboardUpdate announces one clipboard state to the peer.
type ClipboardUpdate struct {
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"` // base64
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Checksum    string    `json:"checksum"`
}

// ClipboardAck reports whether a received ClipboardUpdate was persisted.
type ClipboardAck struct {
	Checksum string `json:"checksum"`
	Success  bool   `json:"success"`
}

// HistoryRequest asks the server for a slice of stored entries.
type HistoryRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// HistoryResponse answers a HistoryRequest.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// HistoryEntry is the wire form of one stored clipboard entry.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	ContentType string    `json:"content_type"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
	Checksum    string    `json:"checksum"`
}

// Ping is the heartbeat probe. Honored in every session state.
type Ping struct{}

// Pong answers a Ping.
type Pong struct{}

// ErrorMessage carries an informational error to the peer. It never closes
// the transport by itself.
type ErrorMessage struct {
	Message string `json:"message"`
}

func (Auth) Variant() string            { return "Auth" }
func (AuthResponse) Variant() string    { return "AuthResponse" }
func (ClipboardUpdate) Variant() string { return "ClipboardUpdate" }
func (ClipboardAck) Variant() string    { return "ClipboardAck" }
func (HistoryRequest) Variant() string  { return "HistoryRequest" }
func (HistoryResponse) Variant() string { return "HistoryResponse" }
func (Ping) Variant() string            { return "Ping" }
func (Pong) Variant() string            { return "Pong" }
func (ErrorMessage) Variant() string    { return "Error" }
