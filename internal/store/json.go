package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadJSON decodes the JSON value stored under key into a T. A missing key,
// a read failure or malformed JSON all yield the zero T, so callers see
// corrupted data as empty.
func LoadJSON[T any](ctx context.Context, kv KV, key string) T {
	var out T

	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok || raw == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		var zero T
		return zero
	}
	return out
}

// SaveJSON encodes v as JSON and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(data))
}
