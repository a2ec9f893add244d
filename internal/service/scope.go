// Package service implements the book club flows: registration, sign-in,
// the session flag, purchases, ratings and comments, and catalog search.
package service

import (
	"github.com/bookclub/bookclub-server/internal/domain"
	"github.com/bookclub/bookclub-server/internal/store"
)

// Landing is where sign-in, sign-up and logout send the visitor.
const Landing = "/index.html"

// Scope is the storage one visitor can see: persistent data for their
// device and tab-lifetime data for their browsing session.
type Scope struct {
	Persistent store.KV
	Session    store.KV
}

// Result tells the caller where to go after a flow succeeds.
type Result struct {
	Redirect string
	Flag     domain.SessionFlag
}
