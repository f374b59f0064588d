// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ClipboardEntry is the unit of replication: one observed clipboard state.
//
// Content is always the base64 text form of the payload so that the same
// representation crosses the wire and sits in the text-oriented store.
// Checksum is derived from Content and acts as the deduplication key —
// two entries with an equal checksum are the same logical clipboard state
// regardless of origin or capture time.
type ClipboardEntry struct {
	// ID is assigned by the store on first insert. Zero until persisted.
	ID int64 `json:"id,omitempty"`

	// ContentType describes how the decoded payload must be interpreted.
	ContentType ContentType `json:"content_type"`

	// Content is the base64-encoded payload.
	Content string `json:"content"`

	// Metadata is optional JSON-encoded auxiliary data.
	Metadata *string `json:"metadata,omitempty"`

	// Source identifies the machine that captured the entry.
	Source string `json:"source"`

	// Timestamp is the UTC capture time. Refreshed when the same checksum
	// is inserted again.
	Timestamp time.Time `json:"timestamp"`

	// Checksum is the hex SHA-256 digest of Content.
	Checksum string `json:"checksum"`
}

// NewClipboardEntry builds an unpersisted entry for the given base64 content,
// stamping it with the current UTC time and the content checksum.
func NewClipboardEntry(contentType ContentType, content string, source string) ClipboardEntry {
	return ClipboardEntry{
		ContentType: contentType,
		Content:     content,
		Source:      source,
		Timestamp:   time.Now().UTC(),
		Checksum:    Checksum(content),
	}
}

// Checksum returns the hex SHA-256 digest of content. Only equality and
// stability of the digest matter to the sync protocol, not the algorithm.
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
