package api

import (
	"github.com/bookclub/bookclub-server/internal/service"
)

// Services groups the business services used by the API server.
type Services struct {
	Auth   *service.AuthService
	Book   *service.BookService
	Search *service.SearchService
}
