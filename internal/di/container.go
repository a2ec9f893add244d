// Package di provides dependency injection configuration for the book club server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/bookclub/bookclub-server/internal/api"
	"github.com/bookclub/bookclub-server/internal/auth"
	"github.com/bookclub/bookclub-server/internal/catalog"
	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/di/providers"
	"github.com/bookclub/bookclub-server/internal/logger"
	"github.com/bookclub/bookclub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSessionStore)

	// Catalog and search
	do.Provide(injector, providers.ProvideCatalog)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePasswords)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)

	// Workers
	do.Provide(injector, providers.ProvideSessionSweepJob)

	// Server
	do.Provide(injector, providers.ProvideVisitors)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SessionStoreHandle](injector)
	_ = do.MustInvoke[*catalog.Catalog](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.BookService](injector)

	// The library page needs the index before the first request.
	if err := providers.IndexCatalogIfNeeded(injector); err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}

	// Workers
	_ = do.MustInvoke[*providers.SessionSweepJob](injector)

	// Server
	_ = do.MustInvoke[*api.Visitors](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
