// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import "errors"

var (
	// ErrNeedMoreData reports that the buffer does not yet hold a complete
	// frame. The caller must keep the buffer and wait for more bytes; no
	// bytes have been consumed.
	ErrNeedMoreData = errors.New("incomplete frame: need more data")

	// ErrFraming reports a malformed payload inside a complete frame.
	// Fatal for the connection that produced it.
	ErrFraming = errors.New("protocol framing error")
)
