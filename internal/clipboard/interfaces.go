// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package clipboard abstracts OS clipboard access for the sync core.
//
// The sync core only ever talks to the [Accessor] interface; transient
// failures from the OS clipboard are logged and retried on the next poll,
// never fatal.
package clipboard

import "github.com/MKhiriev/go-clip-sync/models"

// Accessor reads and writes the machine clipboard.
type Accessor interface {
	// Read returns the current clipboard content, or nil when the
	// clipboard is empty.
	Read() (*models.Content, error)

	// Write replaces the clipboard content.
	Write(content models.Content) error

	// Checksum returns the digest of the current content without keeping
	// the content itself, or nil when the clipboard is empty. Used by the
	// change monitor to detect changes cheaply.
	Checksum() (*string, error)
}
