package store

import (
	"context"
	"errors"
	"strings"
)

// ScopedKV namespaces every key of an underlying KV with a prefix.
type ScopedKV struct {
	kv     KV
	prefix string
}

// Scoped returns a view of kv whose keys are prefixed with prefix.
func Scoped(kv KV, prefix string) *ScopedKV {
	return &ScopedKV{kv: kv, prefix: prefix}
}

// Prefix returns the namespace prefix.
func (s *ScopedKV) Prefix() string {
	return s.prefix
}

// Get implements KV.
func (s *ScopedKV) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return s.kv.Get(ctx, s.prefix+key)
}

// Set implements KV.
func (s *ScopedKV) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.kv.Set(ctx, s.prefix+key, value)
}

// Remove implements KV.
func (s *ScopedKV) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.kv.Remove(ctx, s.prefix+key)
}

// Scan implements Scanner when the underlying store does. Keys passed to
// fn have the namespace stripped.
func (s *ScopedKV) Scan(ctx context.Context, prefix string, fn func(key, value string) error) error {
	sc, ok := s.kv.(Scanner)
	if !ok {
		return errors.New("store: underlying kv cannot scan")
	}
	return sc.Scan(ctx, s.prefix+prefix, func(key, value string) error {
		return fn(strings.TrimPrefix(key, s.prefix), value)
	})
}
