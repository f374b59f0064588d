// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"io"
	"net"

	"github.com/MKhiriev/go-clip-sync/internal/protocol"
)

// readBufferSize is the socket read chunk size.
const readBufferSize = 8192

// errStreamClosed marks a clean zero-length read: the peer is done, no data
// was lost. The outer reconnect loop still reconnects.
var errStreamClosed = errors.New("stream closed by peer")

// frameReader defragments a byte stream into protocol messages, retaining
// partial frames between reads.
type frameReader struct {
	conn    net.Conn
	buf     []byte
	pending []byte
}

func newFrameReader(conn net.Conn) *frameReader {
	return &frameReader{
		conn: conn,
		buf:  make([]byte, readBufferSize),
	}
}

// next blocks until one complete message is available. It returns
// errStreamClosed on a clean EOF and the underlying error on socket or
// framing failures.
func (r *frameReader) next() (protocol.Message, error) {
	for {
		msg, consumed, err := protocol.Decode(r.pending)
		if err == nil {
			r.pending = r.pending[consumed:]
			return msg, nil
		}
		if !errors.Is(err, protocol.ErrNeedMoreData) {
			return nil, err
		}

		n, readErr := r.conn.Read(r.buf)
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil, errStreamClosed
			}
			return nil, readErr
		}

		r.pending = append(r.pending, r.buf[:n]...)
	}
}
