package service

import (
	"context"
	"fmt"

	"github.com/bookclub/bookclub-server/internal/domain"
	"github.com/bookclub/bookclub-server/internal/store"
)

const authedValue = "true"

// SessionFlags manages the session-scoped signed-in marker.
type SessionFlags struct {
	kv store.KV
}

// NewSessionFlags returns SessionFlags over session-scoped kv.
func NewSessionFlags(kv store.KV) *SessionFlags {
	return &SessionFlags{kv: kv}
}

// Set marks the session signed in as displayName.
func (f *SessionFlags) Set(ctx context.Context, displayName string) error {
	if err := f.kv.Set(ctx, store.KeyIsAuthed, authedValue); err != nil {
		return fmt.Errorf("set session flag: %w", err)
	}
	if err := f.kv.Set(ctx, store.KeyUserName, displayName); err != nil {
		return fmt.Errorf("set session name: %w", err)
	}
	return nil
}

// Clear removes both session keys.
func (f *SessionFlags) Clear(ctx context.Context) error {
	if err := f.kv.Remove(ctx, store.KeyIsAuthed); err != nil {
		return fmt.Errorf("clear session flag: %w", err)
	}
	if err := f.kv.Remove(ctx, store.KeyUserName); err != nil {
		return fmt.Errorf("clear session name: %w", err)
	}
	return nil
}

// Current reads the flag. Only the exact value "true" counts as signed in;
// anything else, including a read failure, is a guest.
func (f *SessionFlags) Current(ctx context.Context) domain.SessionFlag {
	v, ok, err := f.kv.Get(ctx, store.KeyIsAuthed)
	if err != nil || !ok || v != authedValue {
		return domain.SessionFlag{}
	}
	name, _, err := f.kv.Get(ctx, store.KeyUserName)
	if err != nil {
		name = ""
	}
	return domain.SessionFlag{Authenticated: true, DisplayName: name}
}
