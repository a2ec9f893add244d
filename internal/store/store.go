// Package store provides the key-value storage the book club keeps its
// users, purchases, reviews and session flag in.
//
// Values are opaque text blobs. Persistent data lives in Badger (or
// SQLite); session data lives in an in-memory store that forgets idle
// entries. Both are namespaced per device or per browsing session with
// Scoped.
package store

import (
	"context"
	"errors"
)

// Keys used by the book club. Persistent keys live under a device
// namespace; session keys live under a session namespace.
const (
	KeyUsers     = "bookclub_users"
	KeyPurchases = "bookclub_purchases"
	KeyRatings   = "bookclub_ratings"
	KeyIsAuthed  = "bookclub_isAuthed"
	KeyUserName  = "bookclub_userName"
)

// KeyComments returns the persistent key holding bookID's comments.
func KeyComments(bookID string) string {
	return "bookclub_comments:" + bookID
}

// ErrEmptyKey is returned when a caller passes an empty key.
var ErrEmptyKey = errors.New("store: empty key")

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Scanner is implemented by stores that can enumerate keys.
type Scanner interface {
	// Scan calls fn for every key with the given prefix, in key order.
	Scan(ctx context.Context, prefix string, fn func(key, value string) error) error
}

// DevicePrefix is the namespace for a device's persistent data.
func DevicePrefix(deviceID string) string {
	return "device:" + deviceID + ":"
}

// SessionPrefix is the namespace for a browsing session's data.
func SessionPrefix(sessionID string) string {
	return "session:" + sessionID + ":"
}
