// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// frameHeaderLen is the size of the big-endian length prefix.
const frameHeaderLen = 4

// Encode serializes m into one length-prefixed frame. It never fails for the
// message types defined in this package.
func Encode(m Message) ([]byte, error) {
	payload, err := encodePayload(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", m.Variant(), err)
	}

	frame := make([]byte, frameHeaderLen+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[frameHeaderLen:], payload)

	return frame, nil
}

// Decode parses the first complete frame in buf.
//
// It returns the decoded message and the number of bytes consumed. When buf
// holds fewer than 4 bytes, or fewer bytes than the declared payload length,
// Decode returns ErrNeedMoreData with zero consumed — the caller retains the
// buffer and waits. A complete frame whose payload does not parse returns an
// error wrapping ErrFraming, which is fatal for the connection.
func Decode(buf []byte) (Message, int, error) {
	if len(buf) < frameHeaderLen {
		return nil, 0, ErrNeedMoreData
	}

	payloadLen := int(binary.BigEndian.Uint32(buf))
	if len(buf) < frameHeaderLen+payloadLen {
		return nil, 0, ErrNeedMoreData
	}

	msg, err := decodePayload(buf[frameHeaderLen : frameHeaderLen+payloadLen])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrFraming, err)
	}

	return msg, frameHeaderLen + payloadLen, nil
}

func encodePayload(m Message) ([]byte, error) {
	switch m.(type) {
	case Ping, Pong:
		// unit variants are bare JSON strings
		return json.Marshal(m.Variant())
	default:
		return json.Marshal(map[string]Message{m.Variant(): m})
	}
}

func decodePayload(payload []byte) (Message, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	if trimmed[0] == '"' {
		var tag string
		if err := json.Unmarshal(trimmed, &tag); err != nil {
			return nil, fmt.Errorf("unit variant: %w", err)
		}
		switch tag {
		case "Ping":
			return Ping{}, nil
		case "Pong":
			return Pong{}, nil
		default:
			return nil, fmt.Errorf("unknown unit variant %q", tag)
		}
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &tagged); err != nil {
		return nil, fmt.Errorf("tagged variant: %w", err)
	}
	if len(tagged) != 1 {
		return nil, fmt.Errorf("expected exactly one variant tag, got %d", len(tagged))
	}

	for tag, body := range tagged {
		return decodeVariant(tag, body)
	}

	return nil, fmt.Errorf("empty variant map") // unreachable
}

func decodeVariant(tag string, body json.RawMessage) (Message, error) {
	switch tag {
	case "Auth":
		var v Auth
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	case "AuthResponse":
		var v AuthResponse
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	case "ClipboardUpdate":
		var v ClipboardUpdate
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	case "ClipboardAck":
		var v ClipboardAck
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	case "HistoryRequest":
		var v HistoryRequest
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	case "HistoryResponse":
		var v HistoryResponse
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	case "Error":
		var v ErrorMessage
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("variant %s: %w", tag, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", tag)
	}
}
