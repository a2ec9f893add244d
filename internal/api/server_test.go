package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclub/bookclub-server/internal/auth"
	"github.com/bookclub/bookclub-server/internal/catalog"
	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/http/response"
	"github.com/bookclub/bookclub-server/internal/search"
	"github.com/bookclub/bookclub-server/internal/service"
	"github.com/bookclub/bookclub-server/internal/store"
	"github.com/bookclub/bookclub-server/internal/typeahead"
)

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Environment: "test"},
		Logger:  config.LoggerConfig{Level: "error"},
		Storage: config.StorageConfig{Driver: config.DriverBadger},
		Server: config.ServerConfig{
			Name:           "Book Club",
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:8080"},
		},
		Session: config.SessionConfig{
			CookieName:       "bookclub_session",
			DeviceCookieName: "bookclub_device",
			TTL:              time.Hour,
			DeviceTTL:        24 * time.Hour,
		},
		Auth: config.AuthConfig{RateLimit: 100},
	}
}

type testServer struct {
	*Server
	api      humatest.TestAPI
	sessions *store.Memory
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithConfig(t, testConfig())
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	persistent, err := store.OpenBadgerInMemory(nil)
	require.NoError(t, err)
	sessions := store.NewMemory(cfg.Session.TTL)

	idx, err := search.Open(search.Options{InMemory: true, Logger: logger})
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	books := catalog.MustDefault()
	searchService := service.NewSearchService(books, idx, typeahead.FromBooks(books.All(), typeahead.DefaultRoutes()), logger)
	require.NoError(t, searchService.EnsureIndexed(t.Context()))

	services := &Services{
		Auth:   service.NewAuthService(auth.NewPasswords(cfg.Auth.HashPasswords), logger),
		Book:   service.NewBookService(books, logger),
		Search: searchService,
	}
	visitors := NewVisitors(tokens, persistent, sessions, cfg.Session, logger)

	s := NewServer(cfg, services, visitors, persistent, sessions, logger)
	t.Cleanup(func() {
		s.Close()
		_ = idx.Close()
		_ = sessions.Close()
		_ = persistent.Close()
	})

	return &testServer{Server: s, api: humatest.Wrap(t, s.API()), sessions: sessions}
}

// envelope is the decoded API response.
type envelope struct {
	V       int                 `json:"v"`
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorBody `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	assert.Equal(t, response.Version, env.V)
	return env
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	env := decodeEnvelope(t, resp.Body.Bytes())
	require.True(t, env.Success, "body: %s", resp.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()

	env := decodeEnvelope(t, resp.Body.Bytes())
	require.False(t, env.Success, "body: %s", resp.Body.String())
	require.NotNil(t, env.Error)
	return *env.Error
}

// browser replays cookies between requests like a single tab would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]string
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h, cookies: map[string]string{}}
}

// newTab shares the device cookie but starts a fresh browsing session.
func (b *browser) newTab(sessionCookie string) *browser {
	tab := newBrowser(b.t, b.handler)
	for k, v := range b.cookies {
		if k != sessionCookie {
			tab.cookies[k] = v
		}
	}
	return tab
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()

	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		b.cookies[c.Name] = c.Value
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postJSON(path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(b.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return b.do(req)
}

func TestServer_APINotFoundUsesEnvelope(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestServer_PageNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := newBrowser(t, ts).get("/nope.html")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "That page does not exist.")
}

func TestServer_Metrics(t *testing.T) {
	ts := setupTestServer(t)

	resp := newBrowser(t, ts).get("/metrics")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "go_goroutines")
	assert.Empty(t, resp.Result().Cookies(), "metrics must not issue visitor cookies")
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:8080", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
