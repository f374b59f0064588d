// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SearchQuery filters history lookups. Nil/empty fields are skipped; the
// remaining predicates are AND-combined.
type SearchQuery struct {
	// ContentType restricts results to one payload type.
	ContentType *ContentType

	// Source restricts results to entries captured on one machine.
	Source *string

	// SearchText is a naive substring match over the stored base64 content.
	// It reliably matches only text payloads, since binary payloads are
	// opaque after encoding.
	SearchText *string

	Limit  int
	Offset int
}

// DefaultSearchLimit bounds a query that did not specify a limit.
const DefaultSearchLimit = 100

// Normalized returns a copy with a positive limit.
func (q SearchQuery) Normalized() SearchQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
