package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bookclub/bookclub-server/internal/domain"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	"github.com/bookclub/bookclub-server/internal/service"
)

//go:embed templates/*.html
var templates embed.FS

// pages is the parsed page template set.
type pages struct {
	tmpl *template.Template
}

func mustParsePages(serverName string) *pages {
	funcs := template.FuncMap{
		"serverName": func() string { return serverName },
		"price": func(p int) string {
			if p == 0 {
				return "Free"
			}
			return fmt.Sprintf("$%d", p)
		},
		"bookURL": func(id string) string { return "/book.html?id=" + url.QueryEscape(id) },
		"average": func(avg *float64) string {
			if avg == nil {
				return "No ratings yet"
			}
			return fmt.Sprintf("%.1f / 5", *avg)
		},
		"seq": func(from, to int) []int {
			out := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}
	return &pages{tmpl: template.Must(template.New("pages").Funcs(funcs).ParseFS(templates, "templates/*.html"))}
}

// pageData is shared by every page template.
type pageData struct {
	Title   string
	Session domain.SessionFlag
	Error   string

	// Form values echoed back after a failed submit. Passwords never are.
	FullName string
	Email    string

	Book     *service.BookView
	Comments []domain.Comment
	Message  string

	Query string
	Books []domain.Book
}

func (s *Server) registerPageRoutes() {
	s.router.Get("/", s.handleIndexPage)
	s.router.Get("/index.html", s.handleIndexPage)
	s.router.Get("/signup.html", s.handleSignUpPage)
	s.router.Post("/signup.html", s.handleSignUpSubmit)
	s.router.Get("/signin.html", s.handleSignInPage)
	s.router.Post("/signin.html", s.handleSignInSubmit)
	s.router.Post("/logout", s.handleLogoutSubmit)
	s.router.Get("/book.html", s.handleBookPage)
	s.router.Post("/purchase", s.handlePurchaseSubmit)
	s.router.Post("/rate", s.handleRateSubmit)
	s.router.Post("/comment", s.handleCommentSubmit)
	s.router.Get("/library.html", s.handleLibraryPage)
	s.router.Get("/search", s.handleSearchSubmit)
}

// handleIndexPage serves the landing page.
// GET /, GET /index.html
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", pageData{Title: "Welcome"})
}

// GET /signup.html
func (s *Server) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signup.html", pageData{Title: "Sign up"})
}

// handleSignUpSubmit registers the user and sends them to the landing page.
// Failures re-render the form with exactly one message.
// POST /signup.html
func (s *Server) handleSignUpSubmit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	req := service.SignUpRequest{
		FullName:        r.PostFormValue("fullName"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}

	res, err := s.services.Auth.SignUp(r.Context(), scope, req)
	if err != nil {
		s.renderFormError(w, r, "signup.html", err, pageData{
			Title:    "Sign up",
			FullName: req.FullName,
			Email:    req.Email,
		})
		return
	}
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

// GET /signin.html
func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signin.html", pageData{Title: "Sign in"})
}

// POST /signin.html
func (s *Server) handleSignInSubmit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	req := service.SignInRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	res, err := s.services.Auth.SignIn(r.Context(), scope, req)
	if err != nil {
		s.renderFormError(w, r, "signin.html", err, pageData{Title: "Sign in", Email: req.Email})
		return
	}
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

// POST /logout
func (s *Server) handleLogoutSubmit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	res, err := s.services.Auth.Logout(r.Context(), scope)
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

// handleBookPage shows one book, or the not-found placeholder.
// GET /book.html?id=
func (s *Server) handleBookPage(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	s.renderBook(w, r, scope, r.URL.Query().Get("id"), http.StatusOK, "")
}

// renderBook renders the book page with its comments, or the not-found
// placeholder. formErr is shown above the review forms.
func (s *Server) renderBook(w http.ResponseWriter, r *http.Request, scope service.Scope, id string, status int, formErr string) {
	view, err := s.services.Book.Detail(r.Context(), scope, id)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			s.renderStatus(w, r, http.StatusNotFound, "book.html", pageData{
				Title:   "Book not found",
				Message: domainerrors.MessageOf(err),
			})
			return
		}
		s.renderServerError(w, r, err)
		return
	}

	comments, err := s.services.Book.Comments(r.Context(), scope, id)
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}

	s.renderStatus(w, r, status, "book.html", pageData{
		Title:    view.Book.Title,
		Book:     view,
		Comments: comments,
		Error:    formErr,
	})
}

// handlePurchaseSubmit buys the posted book and returns to its page.
// Guests are sent to sign in.
// POST /purchase
func (s *Server) handlePurchaseSubmit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	bookID := r.PostFormValue("id")
	_, err := s.services.Book.Purchase(r.Context(), scope, bookID)
	switch {
	case err == nil:
		http.Redirect(w, r, "/book.html?id="+url.QueryEscape(bookID), http.StatusSeeOther)
	case domainerrors.Is(err, domainerrors.ErrUnauthorized):
		http.Redirect(w, r, "/signin.html", http.StatusSeeOther)
	case domainerrors.Is(err, domainerrors.ErrNotFound):
		s.renderStatus(w, r, http.StatusNotFound, "book.html", pageData{
			Title:   "Book not found",
			Message: domainerrors.MessageOf(err),
		})
	default:
		s.renderServerError(w, r, err)
	}
}

// handleRateSubmit stores the posted star rating and returns to the book.
// POST /rate
func (s *Server) handleRateSubmit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	bookID := r.PostFormValue("id")
	stars, err := strconv.Atoi(r.PostFormValue("stars"))
	if err == nil {
		_, err = s.services.Book.Rate(r.Context(), scope, bookID, stars)
	} else {
		err = domainerrors.Validation(service.MsgStarsOutOfRange)
	}
	s.reviewSubmitted(w, r, scope, bookID, err)
}

// handleCommentSubmit posts a comment and returns to the book.
// POST /comment
func (s *Server) handleCommentSubmit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.pageScope(w, r)
	if !ok {
		return
	}

	bookID := r.PostFormValue("id")
	_, err := s.services.Book.AddComment(r.Context(), scope, bookID, r.PostFormValue("content"))
	s.reviewSubmitted(w, r, scope, bookID, err)
}

func (s *Server) reviewSubmitted(w http.ResponseWriter, r *http.Request, scope service.Scope, bookID string, err error) {
	switch {
	case err == nil:
		http.Redirect(w, r, "/book.html?id="+url.QueryEscape(bookID), http.StatusSeeOther)
	case domainerrors.Is(err, domainerrors.ErrUnauthorized):
		http.Redirect(w, r, "/signin.html", http.StatusSeeOther)
	case domainerrors.Is(err, domainerrors.ErrValidation):
		s.renderBook(w, r, scope, bookID, http.StatusBadRequest, domainerrors.MessageOf(err))
	case domainerrors.Is(err, domainerrors.ErrNotFound):
		s.renderBook(w, r, scope, bookID, http.StatusNotFound, "")
	default:
		s.renderServerError(w, r, err)
	}
}

// GET /library.html?q=
func (s *Server) handleLibraryPage(w http.ResponseWriter, r *http.Request) {
	res, err := s.services.Search.Library(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.renderServerError(w, r, err)
		return
	}
	s.render(w, r, "library.html", pageData{Title: "Library", Query: res.Query, Books: res.Books})
}

// handleSearchSubmit resolves the header search form the way Enter does
// in the dropdown. An empty query stays put.
// GET /search?q=&highlight=
func (s *Server) handleSearchSubmit(w http.ResponseWriter, r *http.Request) {
	highlight := -1
	if raw := r.URL.Query().Get("highlight"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			highlight = n
		}
	}

	target, ok := s.services.Search.Confirm(r.URL.Query().Get("q"), highlight)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// pageScope returns the visitor's scope, writing a 500 page when the
// visitor middleware did not run.
func (s *Server) pageScope(w http.ResponseWriter, r *http.Request) (service.Scope, bool) {
	v, ok := visitorFrom(r.Context())
	if !ok {
		s.renderServerError(w, r, domainerrors.Internal("visitor not resolved"))
		return service.Scope{}, false
	}
	return v.Scope, true
}

func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, name string, err error, data pageData) {
	code := domainerrors.CodeOf(err)
	if code == domainerrors.CodeInternal {
		s.logger.Error("form submit failed", "page", name, "error", err)
	}
	data.Error = domainerrors.MessageOf(err)
	s.renderStatus(w, r, code.HTTPStatus(), name, data)
}

func (s *Server) renderServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("page failed", "path", r.URL.Path, "error", err)
	s.renderStatus(w, r, http.StatusInternalServerError, "notfound.html", pageData{
		Title:   "Error",
		Message: domainerrors.MsgGeneric,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus executes a page into a buffer first so a template failure
// never leaves a half-written page.
func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if v, ok := visitorFrom(r.Context()); ok {
		data.Session = service.NewSessionFlags(v.Scope.Session).Current(r.Context())
	}

	var buf bytes.Buffer
	if err := s.pages.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("failed to write page", "page", name, "error", err)
	}
}
