package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieByName(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestVisitors_IssuesBothCookies(t *testing.T) {
	ts := setupTestServer(t)
	cfg := testConfig()

	resp := newBrowser(t, ts).get("/")
	require.Equal(t, http.StatusOK, resp.Code)

	device := cookieByName(resp, cfg.Session.DeviceCookieName)
	require.NotNil(t, device)
	assert.True(t, device.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, device.SameSite)
	assert.Equal(t, int(cfg.Session.DeviceTTL.Seconds()), device.MaxAge)

	session := cookieByName(resp, cfg.Session.CookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Zero(t, session.MaxAge, "session cookie must end with the browser session")
}

func TestVisitors_ReusesValidCookies(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	b.get("/")
	resp := b.get("/")
	assert.Empty(t, resp.Result().Cookies())
}

func TestVisitors_ReplacesTamperedCookie(t *testing.T) {
	ts := setupTestServer(t)
	cfg := testConfig()
	b := newBrowser(t, ts)

	b.get("/")
	original := b.cookies[cfg.Session.DeviceCookieName]
	b.cookies[cfg.Session.DeviceCookieName] = original + "x"

	resp := b.get("/")
	device := cookieByName(resp, cfg.Session.DeviceCookieName)
	require.NotNil(t, device)
	assert.NotEqual(t, original, device.Value)
	assert.Nil(t, cookieByName(resp, cfg.Session.CookieName))
}

func TestVisitors_SessionCookieCannotStandInForDevice(t *testing.T) {
	ts := setupTestServer(t)
	cfg := testConfig()
	b := newBrowser(t, ts)

	b.get("/")
	b.cookies[cfg.Session.DeviceCookieName] = b.cookies[cfg.Session.CookieName]

	resp := b.get("/")
	assert.NotNil(t, cookieByName(resp, cfg.Session.DeviceCookieName))
}

func TestVisitors_DevicesAreIsolated(t *testing.T) {
	ts := setupTestServer(t)

	first := newBrowser(t, ts)
	require.Equal(t, http.StatusSeeOther, first.postForm("/signup.html", signUpForm("Ann", "ann@x.io", "abcdefgh", "abcdefgh")).Code)

	second := newBrowser(t, ts)
	resp := second.postForm("/signup.html", signUpForm("Ann", "ann@x.io", "abcdefgh", "abcdefgh"))
	assert.Equal(t, http.StatusSeeOther, resp.Code, "a second device keeps its own users")
}

func TestVisitors_IdleSessionSignsOut(t *testing.T) {
	cfg := testConfig()
	cfg.Session.TTL = 50 * time.Millisecond
	ts := setupTestServerWithConfig(t, cfg)
	b := newBrowser(t, ts)

	require.Equal(t, http.StatusSeeOther, b.postForm("/signup.html", signUpForm("Ann Lee", "ann@x.io", "abcdefgh", "abcdefgh")).Code)
	time.Sleep(100 * time.Millisecond)

	assert.Contains(t, b.get("/").Body.String(), "Welcome to Book Club")

	// The account itself lives on the device and survives.
	resp := b.postForm("/signin.html", url.Values{"email": {"ann@x.io"}, "password": {"abcdefgh"}})
	assert.Equal(t, http.StatusSeeOther, resp.Code)
}
