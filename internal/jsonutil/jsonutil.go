// Package jsonutil provides shared helpers for the websocket JSON payloads:
// context-wrapped decoding, tolerance for absent payloads, and raw encoding.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// IsEmpty reports whether data carries no value: zero length, whitespace
// only, or a JSON null.
func IsEmpty(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// UnmarshalOptional behaves like UnmarshalWithContext but leaves v untouched
// and returns nil when data is empty.
func UnmarshalOptional(data []byte, v interface{}, context string) error {
	if IsEmpty(data) {
		return nil
	}
	return UnmarshalWithContext(data, v, context)
}

// MarshalRaw encodes v for embedding in an envelope. A nil v yields a nil
// RawMessage so the field can be omitted.
func MarshalRaw(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
