package api

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclub/bookclub-server/internal/service"
)

func signUpForm(name, email, password, confirm string) url.Values {
	return url.Values{
		"fullName":        {name},
		"email":           {email},
		"password":        {password},
		"confirmPassword": {confirm},
	}
}

func TestIndexPage_Guest(t *testing.T) {
	ts := setupTestServer(t)

	resp := newBrowser(t, ts).get("/")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Welcome to Book Club")
	assert.NotContains(t, body, "Go to Library")
	assert.Equal(t, "no-store", resp.Header().Get("Cache-Control"))
}

func TestLayout_TypeaheadSendsEventsInOrder(t *testing.T) {
	ts := setupTestServer(t)

	body := newBrowser(t, ts).get("/").Body.String()
	assert.Equal(t, 1, strings.Count(body, "fetch("), "only the queued sender talks to the server")
	assert.Contains(t, body, "var result = queue.then(function () { return post(event); });")
	assert.Contains(t, body, "queue = result.catch(")
}

func TestSignUpPage_SuccessRedirectsToWelcome(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	resp := b.postForm("/signup.html", signUpForm("Ann Lee", "ann@x.io", "abcdefgh", "abcdefgh"))
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/index.html", resp.Header().Get("Location"))

	resp = b.get("/index.html")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Welcome, Ann Lee!")
	assert.Contains(t, resp.Body.String(), "Go to Library")
}

func TestSignUpPage_ShowsOneMessage(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	resp := b.postForm("/signup.html", signUpForm("Ann", "ann@x.io", "short", "other"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, service.MsgPasswordTooShort)
	assert.NotContains(t, body, service.MsgPasswordMismatch)
	assert.Contains(t, body, `value="ann@x.io"`)

	require.Equal(t, http.StatusSeeOther, b.postForm("/signup.html", signUpForm("Ann", "ann@x.io", "abcdefgh", "abcdefgh")).Code)
	resp = b.postForm("/signup.html", signUpForm("Ann", "ANN@x.io", "abcdefgh", "abcdefgh"))
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgEmailTaken)
}

func TestSignInPage(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)
	require.Equal(t, http.StatusSeeOther, b.postForm("/signup.html", signUpForm("Ann Lee", "ann@x.io", "abcdefgh", "abcdefgh")).Code)

	tab := b.newTab(testConfig().Session.CookieName)
	assert.Contains(t, tab.get("/").Body.String(), "Welcome to Book Club")

	resp := tab.postForm("/signin.html", url.Values{"email": {"ann@x.io"}, "password": {"wrong-one"}})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgWrongPassword)

	resp = tab.postForm("/signin.html", url.Values{"email": {"bob@x.io"}, "password": {"abcdefgh"}})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgNoAccount)

	resp = tab.postForm("/signin.html", url.Values{"email": {"ann@x.io"}, "password": {"abcdefgh"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/index.html", resp.Header().Get("Location"))
	assert.Contains(t, tab.get("/").Body.String(), "Welcome, Ann Lee!")
}

func TestLogoutPage(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)
	require.Equal(t, http.StatusSeeOther, b.postForm("/signup.html", signUpForm("Ann Lee", "ann@x.io", "abcdefgh", "abcdefgh")).Code)

	resp := b.postForm("/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/index.html", resp.Header().Get("Location"))
	assert.Contains(t, b.get("/").Body.String(), "Welcome to Book Club")
}

func TestBookPage(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	resp := b.get("/book.html?id=romeo-juliet")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Romeo and Juliet")
	assert.NotContains(t, body, `action="/purchase"`)
	assert.NotContains(t, body, `class="read"`)

	resp = b.get("/book.html?id=unknown")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgBookNotFound)

	resp = b.get("/book.html")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPurchaseFlowPages(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	resp := b.postForm("/purchase", url.Values{"id": {"romeo-juliet"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/signin.html", resp.Header().Get("Location"))

	require.Equal(t, http.StatusSeeOther, b.postForm("/signup.html", signUpForm("Ann", "ann@x.io", "abcdefgh", "abcdefgh")).Code)

	body := b.get("/book.html?id=romeo-juliet").Body.String()
	assert.Contains(t, body, `action="/purchase"`)
	assert.Contains(t, body, "Buy for $10")

	resp = b.postForm("/purchase", url.Values{"id": {"romeo-juliet"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/book.html?id=romeo-juliet", resp.Header().Get("Location"))

	body = b.get("/book.html?id=romeo-juliet").Body.String()
	assert.NotContains(t, body, `action="/purchase"`)
	assert.Contains(t, body, `href="https://www.gutenberg.org/cache/epub/1513/pg1513-images.html"`)

	assert.Contains(t, b.get("/book.html?id=moby-dick").Body.String(), "Get for free")

	resp = b.postForm("/purchase", url.Values{"id": {"missing"}})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestReviewPages(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	body := b.get("/book.html?id=shakespeare").Body.String()
	assert.Contains(t, body, "No ratings yet")
	assert.Contains(t, body, "No comments yet.")
	assert.NotContains(t, body, `action="/rate"`)
	assert.NotContains(t, body, `action="/comment"`)

	resp := b.postForm("/rate", url.Values{"id": {"shakespeare"}, "stars": {"4"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/signin.html", resp.Header().Get("Location"))

	require.Equal(t, http.StatusSeeOther, b.postForm("/signup.html", signUpForm("Ann", "ann@x.io", "abcdefgh", "abcdefgh")).Code)

	body = b.get("/book.html?id=shakespeare").Body.String()
	assert.Contains(t, body, `action="/rate"`)
	assert.Contains(t, body, `action="/comment"`)

	resp = b.postForm("/rate", url.Values{"id": {"shakespeare"}, "stars": {"4"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/book.html?id=shakespeare", resp.Header().Get("Location"))

	resp = b.postForm("/rate", url.Values{"id": {"shakespeare"}, "stars": {"lots"}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgStarsOutOfRange)

	resp = b.postForm("/comment", url.Values{"id": {"shakespeare"}, "content": {"A fine read"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	resp = b.postForm("/comment", url.Values{"id": {"shakespeare"}, "content": {"  "}})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), service.MsgCommentEmpty)

	body = b.get("/book.html?id=shakespeare").Body.String()
	assert.Contains(t, body, "4.0 / 5 (1 rating)")
	assert.Contains(t, body, `<option value="4" selected>`)
	assert.Contains(t, body, "Update rating")
	assert.Contains(t, body, "A fine read")
	assert.NotContains(t, body, "No comments yet.")

	resp = b.postForm("/comment", url.Values{"id": {"missing"}, "content": {"hello"}})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestLibraryPage(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	body := b.get("/library.html").Body.String()
	assert.Contains(t, body, "Romeo and Juliet")
	assert.Contains(t, body, "Moby Dick")

	body = b.get("/library.html?q=whale").Body.String()
	assert.Contains(t, body, "Moby Dick")
	assert.NotContains(t, body, "Romeo and Juliet")

	body = b.get("/library.html?q=zzz").Body.String()
	assert.Contains(t, body, "No books found")
}

func TestSearchSubmit(t *testing.T) {
	ts := setupTestServer(t)
	b := newBrowser(t, ts)

	tests := []struct {
		path     string
		status   int
		location string
	}{
		{"/search?q=moby", http.StatusSeeOther, "/book.html?id=moby-dick"},
		{"/search?q=william", http.StatusSeeOther, "/library.html?q=william"},
		{"/search?q=r&highlight=0", http.StatusSeeOther, "/book.html?id=romeo-juliet"},
		{"/search?q=zzz", http.StatusSeeOther, "/library.html?q=zzz"},
		{"/search?q=++", http.StatusNoContent, ""},
		{"/search", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := b.get(tt.path)
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.location, resp.Header().Get("Location"))
		})
	}
}
