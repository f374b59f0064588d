// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/base64"
	"fmt"
)

// Content is a decoded clipboard payload as read from or written to the OS
// clipboard, before base64 encoding for transport and storage.
type Content struct {
	Type ContentType
	Data []byte
}

// TextContent wraps a plain-text clipboard payload.
func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Data: []byte(text)}
}

// ToBase64 returns the transport/storage representation of the payload.
func (c Content) ToBase64() string {
	return base64.StdEncoding.EncodeToString(c.Data)
}

// ContentFromBase64 decodes a transport payload back into clipboard content.
func ContentFromBase64(contentType ContentType, encoded string) (Content, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Content{}, fmt.Errorf("decode clipboard content: %w", err)
	}
	return Content{Type: contentType, Data: data}, nil
}
