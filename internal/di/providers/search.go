package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookclub/bookclub-server/internal/catalog"
	"github.com/bookclub/bookclub-server/internal/config"
	"github.com/bookclub/bookclub-server/internal/logger"
	"github.com/bookclub/bookclub-server/internal/search"
	"github.com/bookclub/bookclub-server/internal/service"
	"github.com/bookclub/bookclub-server/internal/typeahead"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.Open(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	books := do.MustInvoke[*catalog.Catalog](i)
	log := do.MustInvoke[*logger.Logger](i)

	widget := typeahead.FromBooks(books.All(), typeahead.DefaultRoutes())
	return service.NewSearchService(books, indexHandle.Index, widget, log.Logger), nil
}

// IndexCatalogIfNeeded fills an empty search index from the catalog.
// Should be called after all services are wired.
func IndexCatalogIfNeeded(i do.Injector) error {
	searchService := do.MustInvoke[*service.SearchService](i)
	return searchService.EnsureIndexed(context.Background())
}
