package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookclub/bookclub-server/internal/auth"
	"github.com/bookclub/bookclub-server/internal/catalog"
	"github.com/bookclub/bookclub-server/internal/logger"
	"github.com/bookclub/bookclub-server/internal/service"
)

// ProvideCatalog provides the embedded book catalog.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	log := do.MustInvoke[*logger.Logger](i)

	books, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	log.Info("Catalog loaded", "books", len(books.All()))
	return books, nil
}

// ProvideAuthService provides the sign-up/sign-in service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	passwords := do.MustInvoke[auth.Passwords](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(passwords, log.Logger), nil
}

// ProvideBookService provides the book page and purchase service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	books := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(books, log.Logger), nil
}
