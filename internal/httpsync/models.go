// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpsync

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// The JSON field names below are the polling API's compatibility surface.

type submitRequest struct {
	Content string `json:"content"` // base64
	Source  string `json:"source,omitempty"`
}

type submitResponse struct {
	ID        int64     `json:"id"`
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
}

type itemResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"` // base64
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

type historyListResponse struct {
	Items []itemResponse `json:"items"`
	Total int            `json:"total"`
}

type healthResponse struct {
	Status        string `json:"status"`
	ItemsCount    int64  `json:"items_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// contentHash is the polling API's change-detection digest: MD5 over the
// base64 content, matching what deployed pollers compute. Dedup inside the
// store still runs on the stronger entry checksum.
func contentHash(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
