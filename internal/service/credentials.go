package service

import (
	"context"
	"strings"

	"github.com/bookclub/bookclub-server/internal/domain"
	"github.com/bookclub/bookclub-server/internal/store"
)

// CredentialStore reads and writes the registered users list.
type CredentialStore struct {
	kv store.KV
}

// NewCredentialStore returns a CredentialStore over kv.
func NewCredentialStore(kv store.KV) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Load returns every registered user. Missing or unreadable data is an
// empty list.
func (c *CredentialStore) Load(ctx context.Context) []domain.User {
	users := store.LoadJSON[[]domain.User](ctx, c.kv, store.KeyUsers)
	if users == nil {
		return []domain.User{}
	}
	return users
}

// Save replaces the stored user list.
func (c *CredentialStore) Save(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	return store.SaveJSON(ctx, c.kv, store.KeyUsers, users)
}

// FindByEmail returns the first user whose email equals email, ignoring case.
func FindByEmail(users []domain.User, email string) (domain.User, bool) {
	want := strings.ToLower(email)
	for _, u := range users {
		if strings.ToLower(u.Email) == want {
			return u, true
		}
	}
	return domain.User{}, false
}
