// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package clipboard

import (
	"sync"

	"github.com/MKhiriev/go-clip-sync/models"
)

// Fake is an in-memory [Accessor] for tests and for headless environments
// without a system clipboard.
type Fake struct {
	mu      sync.Mutex
	content *models.Content

	// ReadErr and WriteErr, when set, are returned by the corresponding
	// operations to simulate clipboard failures.
	ReadErr  error
	WriteErr error
}

// NewFake returns an empty in-memory clipboard.
func NewFake() *Fake {
	return &Fake{}
}

// Set puts content on the fake clipboard, as if the user copied it.
func (f *Fake) Set(content models.Content) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = &content
}

// SetText is a shorthand for Set with a text payload.
func (f *Fake) SetText(text string) {
	f.Set(models.TextContent(text))
}

// Empty clears the fake clipboard.
func (f *Fake) Empty() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = nil
}

// Read implements [Accessor].
func (f *Fake) Read() (*models.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	if f.content == nil {
		return nil, nil
	}

	content := *f.content
	return &content, nil
}

// Write implements [Accessor].
func (f *Fake) Write(content models.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WriteErr != nil {
		return f.WriteErr
	}

	f.content = &content
	return nil
}

// Checksum implements [Accessor].
func (f *Fake) Checksum() (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	if f.content == nil {
		return nil, nil
	}

	sum := models.Checksum(f.content.ToBase64())
	return &sum, nil
}
