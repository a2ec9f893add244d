// Package domain holds the book club's core records.
package domain

// User is a registered account as persisted under bookclub_users.
type User struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	// Password is the entered password, or an Argon2id encoded hash when
	// password hashing is enabled.
	Password string `json:"password"`
}

// SessionFlag is the signed-in state of one browsing session. The zero
// value is a guest.
type SessionFlag struct {
	Authenticated bool   `json:"authenticated"`
	DisplayName   string `json:"displayName,omitempty"`
}
