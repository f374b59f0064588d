// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allVariants(t *testing.T) []Message {
	t.Helper()

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	return []Message{
		Auth{Token: "secret"},
		AuthResponse{Success: true, Message: "Authentication successful"},
		ClipboardUpdate{
			ContentType: "text",
			Content:     "aGVsbG8=",
			Timestamp:   ts,
			Source:      "macos",
			Checksum:    "abc123",
		},
		ClipboardAck{Checksum: "abc123", Success: true},
		HistoryRequest{Limit: 50, Offset: 10},
		HistoryResponse{Entries: []HistoryEntry{
			{
				ID:          7,
				ContentType: "html",
				Content:     "PGI+aGk8L2I+",
				Source:      "nixos",
				Timestamp:   ts,
				Checksum:    "def456",
			},
		}},
		Ping{},
		Pong{},
		ErrorMessage{Message: "boom"},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, msg := range allVariants(t) {
		t.Run(msg.Variant(), func(t *testing.T) {
			frame, err := Encode(msg)
			require.NoError(t, err)

			decoded, consumed, err := Decode(frame)
			require.NoError(t, err)
			assert.Equal(t, len(frame), consumed)
			assert.Equal(t, msg, decoded)
		})
	}
}

func TestEncodeFrameShape(t *testing.T) {
	frame, err := Encode(Ping{})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(frame), 4)
	payloadLen := binary.BigEndian.Uint32(frame)
	assert.Equal(t, len(frame)-4, int(payloadLen))

	// unit variants are bare JSON strings on the wire
	assert.Equal(t, `"Ping"`, string(frame[4:]))
}

func TestEncodeTaggedShape(t *testing.T) {
	frame, err := Encode(Auth{Token: "t0k"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"Auth":{"token":"t0k"}}`, string(frame[4:]))
}

func TestDecodeNeedMoreData(t *testing.T) {
	frame, err := Encode(ErrorMessage{Message: "partial"})
	require.NoError(t, err)

	t.Run("empty buffer", func(t *testing.T) {
		msg, consumed, decodeErr := Decode(nil)
		require.ErrorIs(t, decodeErr, ErrNeedMoreData)
		assert.Nil(t, msg)
		assert.Zero(t, consumed)
	})

	t.Run("short header", func(t *testing.T) {
		msg, consumed, decodeErr := Decode(frame[:3])
		require.ErrorIs(t, decodeErr, ErrNeedMoreData)
		assert.Nil(t, msg)
		assert.Zero(t, consumed)
	})

	t.Run("short payload", func(t *testing.T) {
		for cut := 4; cut < len(frame); cut++ {
			msg, consumed, decodeErr := Decode(frame[:cut])
			require.ErrorIs(t, decodeErr, ErrNeedMoreData)
			assert.Nil(t, msg)
			assert.Zero(t, consumed)
		}
	})
}

func TestDecodeFramingErrors(t *testing.T) {
	makeFrame := func(payload string) []byte {
		frame := make([]byte, 4+len(payload))
		binary.BigEndian.PutUint32(frame, uint32(len(payload)))
		copy(frame[4:], payload)
		return frame
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{{{{"},
		{"unknown unit variant", `"Quit"`},
		{"unknown tagged variant", `{"Shutdown":{}}`},
		{"two variant tags", `{"Ping":null,"Pong":null}`},
		{"empty payload", ""},
		{"wrong body type", `{"Auth":{"token":42}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, consumed, err := Decode(makeFrame(tt.payload))
			require.ErrorIs(t, err, ErrFraming)
			assert.Nil(t, msg)
			assert.Zero(t, consumed)
		})
	}
}

func TestDecodeConsumesOneFrame(t *testing.T) {
	first, err := Encode(Ping{})
	require.NoError(t, err)
	second, err := Encode(Auth{Token: "abc"})
	require.NoError(t, err)

	buf := append(append([]byte{}, first...), second...)

	msg, consumed, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, Ping{}, msg)
	assert.Equal(t, len(first), consumed)

	msg, consumed, err = Decode(buf[consumed:])
	require.NoError(t, err)
	assert.Equal(t, Auth{Token: "abc"}, msg)
	assert.Equal(t, len(second), consumed)
}
