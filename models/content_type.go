// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ContentType classifies a clipboard payload. The string values are part of
// the wire compatibility surface and must round-trip exactly.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeHTML  ContentType = "html"
	ContentTypeRTF   ContentType = "rtf"
	ContentTypeFiles ContentType = "files"
)

// ParseContentType maps a wire string to a ContentType. Unknown values fall
// back to text so that a newer peer never breaks an older one.
func ParseContentType(s string) ContentType {
	switch ContentType(s) {
	case ContentTypeText, ContentTypeImage, ContentTypeHTML, ContentTypeRTF, ContentTypeFiles:
		return ContentType(s)
	default:
		return ContentTypeText
	}
}

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeText, ContentTypeImage, ContentTypeHTML, ContentTypeRTF, ContentTypeFiles:
		return true
	}
	return false
}

func (t ContentType) String() string {
	return string(t)
}
