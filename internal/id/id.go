// Package id generates identifiers for devices, browsing sessions and
// comments.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet avoids the ':' namespace separator and keeps ids cookie-safe.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const size = 21

// Prefixes for the identifiers the server issues.
const (
	PrefixDevice  = "dev"
	PrefixSession = "ses"
	PrefixComment = "cmt"
)

// Generate returns prefix-<nanoid>, e.g. "dev-V1StGXR8Z5jdHi6BmyT0a".
func Generate(prefix string) (string, error) {
	raw, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + raw, nil
}

// MustGenerate is Generate that panics when the system has no entropy.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}

// Valid reports whether v looks like an id issued with prefix.
func Valid(prefix, v string) bool {
	raw, ok := strings.CutPrefix(v, prefix+"-")
	if !ok || len(raw) != size {
		return false
	}
	for _, r := range raw {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}
