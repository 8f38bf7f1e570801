package persistence

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"triage-server/internal/domain/conversation"
)

// Encode serializes a collection to a text-safe blob: JSON wrapped in
// standard base64. Every field round-trips, timestamps included (RFC 3339
// with nanoseconds, encoding/json's time format).
func Encode(col *conversation.Collection) (string, error) {
	if col == nil {
		col = conversation.NewCollection()
	}
	raw, err := json.Marshal(col)
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses a blob produced by Encode and forward-migrates the result,
// so records written by older schema versions come back fully shaped.
func Decode(blob string) (*conversation.Collection, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode collection blob: %w", err)
	}
	col := conversation.NewCollection()
	if err := json.Unmarshal(raw, col); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	col.Migrate(time.Now())
	return col, nil
}
