package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/bookclub/bookclub-server/internal/auth"
	"github.com/bookclub/bookclub-server/internal/config"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	"github.com/bookclub/bookclub-server/internal/http/response"
	"github.com/bookclub/bookclub-server/internal/id"
	"github.com/bookclub/bookclub-server/internal/service"
	"github.com/bookclub/bookclub-server/internal/store"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const scopeKey ctxKey = "scope"

// Visitor identifies the device and browsing session behind a request.
type Visitor struct {
	DeviceID  string
	SessionID string
	Scope     service.Scope
}

// Visitors maps the device and session cookies to storage namespaces.
//
// The device cookie is long-lived and selects the persistent namespace
// holding registered users and purchases. The session cookie has no
// Max-Age, so the browser drops it with the tab session, and selects the
// namespace holding the signed-in flag.
type Visitors struct {
	tokens     *auth.TokenService
	persistent store.KV
	sessions   store.KV
	cfg        config.SessionConfig
	logger     *slog.Logger
}

// NewVisitors creates a Visitors over the persistent and session stores.
func NewVisitors(tokens *auth.TokenService, persistent, sessions store.KV, cfg config.SessionConfig, logger *slog.Logger) *Visitors {
	return &Visitors{
		tokens:     tokens,
		persistent: persistent,
		sessions:   sessions,
		cfg:        cfg,
		logger:     logger,
	}
}

// skipVisitor lists endpoints that never touch visitor storage.
var skipVisitor = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Middleware resolves or issues both cookies and stores the visitor in the
// request context.
func (v *Visitors) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipVisitor[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		deviceID, err := v.resolve(w, r, auth.KindDevice)
		if err != nil {
			v.logger.Error("failed to issue device id", "error", err)
			response.InternalError(w, domainerrors.MsgGeneric, v.logger)
			return
		}
		sessionID, err := v.resolve(w, r, auth.KindSession)
		if err != nil {
			v.logger.Error("failed to issue session id", "error", err)
			response.InternalError(w, domainerrors.MsgGeneric, v.logger)
			return
		}

		ctx := withVisitor(r.Context(), v.visitor(deviceID, sessionID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (v *Visitors) visitor(deviceID, sessionID string) *Visitor {
	return &Visitor{
		DeviceID:  deviceID,
		SessionID: sessionID,
		Scope: service.Scope{
			Persistent: store.Scoped(v.persistent, store.DevicePrefix(deviceID)),
			Session:    store.Scoped(v.sessions, store.SessionPrefix(sessionID)),
		},
	}
}

// resolve returns the id carried by the cookie of kind, issuing a fresh
// id and cookie when the cookie is missing, tampered with or expired.
func (v *Visitors) resolve(w http.ResponseWriter, r *http.Request, kind auth.Kind) (string, error) {
	name, prefix := v.cookieName(kind), idPrefix(kind)

	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		claims, verr := v.tokens.Verify(kind, c.Value)
		if verr == nil && id.Valid(prefix, claims.Subject) {
			return claims.Subject, nil
		}
		v.logger.Debug("replacing invalid cookie", "cookie", name, "error", verr)
	}

	newID, err := id.Generate(prefix)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, v.cookie(kind, v.tokens.Issue(kind, newID, v.cfg.DeviceTTL)))
	return newID, nil
}

func (v *Visitors) cookie(kind auth.Kind, value string) *http.Cookie {
	c := &http.Cookie{
		Name:     v.cookieName(kind),
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   v.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if kind == auth.KindDevice {
		c.MaxAge = int(v.cfg.DeviceTTL / time.Second)
	}
	return c
}

func (v *Visitors) cookieName(kind auth.Kind) string {
	if kind == auth.KindDevice {
		return v.cfg.DeviceCookieName
	}
	return v.cfg.CookieName
}

func idPrefix(kind auth.Kind) string {
	if kind == auth.KindDevice {
		return id.PrefixDevice
	}
	return id.PrefixSession
}

func withVisitor(ctx context.Context, v *Visitor) context.Context {
	return context.WithValue(ctx, scopeKey, v)
}

// visitorFrom returns the visitor stored by Visitors.Middleware.
func visitorFrom(ctx context.Context) (*Visitor, bool) {
	v, ok := ctx.Value(scopeKey).(*Visitor)
	return v, ok && v != nil
}

// requireScope returns the visitor's storage scope for huma handlers.
func requireScope(ctx context.Context) (service.Scope, error) {
	v, ok := visitorFrom(ctx)
	if !ok {
		return service.Scope{}, huma.Error500InternalServerError("visitor not resolved")
	}
	return v.Scope, nil
}
