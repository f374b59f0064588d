// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/MKhiriev/go-clip-sync/models"
)

// systemAccessor is the production [Accessor] backed by atotto/clipboard.
// It handles text payloads; image and rich-text clipboard formats are not
// reachable through this backend and surface as empty reads.
type systemAccessor struct{}

// NewSystemAccessor returns the OS clipboard accessor.
func NewSystemAccessor() Accessor {
	return &systemAccessor{}
}

// Read implements [Accessor].
func (s *systemAccessor) Read() (*models.Content, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read system clipboard: %w", err)
	}
	if text == "" {
		return nil, nil
	}

	content := models.TextContent(text)
	return &content, nil
}

// Write implements [Accessor]. Only text content can be written back
// through this backend; other types are reported as unsupported so the
// caller can log and skip them.
func (s *systemAccessor) Write(content models.Content) error {
	if content.Type != models.ContentTypeText {
		return fmt.Errorf("write system clipboard: unsupported content type %q", content.Type)
	}

	if err := clipboard.WriteAll(string(content.Data)); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}

	return nil
}

// Checksum implements [Accessor].
func (s *systemAccessor) Checksum() (*string, error) {
	content, err := s.Read()
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	sum := models.Checksum(content.ToBase64())
	return &sum, nil
}
