package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/bookclub/bookclub-server/internal/catalog"
	"github.com/bookclub/bookclub-server/internal/domain"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	"github.com/bookclub/bookclub-server/internal/metrics"
	"github.com/bookclub/bookclub-server/internal/search"
	"github.com/bookclub/bookclub-server/internal/typeahead"
)

// LibraryResult is the library page listing.
type LibraryResult struct {
	Query string        `json:"query"`
	Books []domain.Book `json:"books"`
}

// EventsResult is the widget's state after an event plus the effects to render.
type EventsResult struct {
	State   typeahead.State           `json:"state"`
	Effects []typeahead.EffectMessage `json:"effects"`
}

// SearchService answers the header typeahead and the library filter.
type SearchService struct {
	catalog *catalog.Catalog
	index   *search.Index
	widget  *typeahead.Widget
	logger  *slog.Logger
}

// NewSearchService creates a SearchService. index may be nil, in which
// case library filtering falls back to substring matching alone.
func NewSearchService(c *catalog.Catalog, index *search.Index, widget *typeahead.Widget, logger *slog.Logger) *SearchService {
	return &SearchService{catalog: c, index: index, widget: widget, logger: logger}
}

// EnsureIndexed fills an empty index from the catalog.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	if s.index == nil {
		return nil
	}

	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		s.logger.Debug("search index already populated", "documents", count)
		return nil
	}

	books := s.catalog.All()
	docs := make([]*search.Document, 0, len(books))
	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs = append(docs, search.FromBook(b))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}
	s.logger.Info("search index built", "documents", len(docs))
	return nil
}

// Library returns the books matching q in catalog order. An empty q lists
// the whole catalog. A book matches when the index finds it or when its
// title or author contains q, ignoring case.
func (s *SearchService) Library(ctx context.Context, q string) (*LibraryResult, error) {
	q = strings.TrimSpace(q)
	books := s.catalog.All()
	if q == "" {
		return &LibraryResult{Query: q, Books: books}, nil
	}

	hits := make(map[string]bool)
	if s.index != nil {
		res, err := s.index.Search(ctx, search.Params{Query: q, Limit: len(books) + 1})
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
		}
		for _, h := range res.Hits {
			hits[h.ID] = true
		}
	}

	folder := cases.Fold()
	needle := folder.String(q)
	out := []domain.Book{}
	for _, b := range books {
		if hits[b.ID] ||
			strings.Contains(folder.String(b.Title), needle) ||
			strings.Contains(folder.String(b.Author), needle) {
			out = append(out, b)
		}
	}
	return &LibraryResult{Query: q, Books: out}, nil
}

// Suggest returns the typeahead rows for q.
func (s *SearchService) Suggest(q string) []typeahead.Suggestion {
	return s.widget.Match(q)
}

// Events applies one wire event to a client-held state.
func (s *SearchService) Events(state typeahead.State, msg typeahead.EventMessage) (*EventsResult, error) {
	ev, err := msg.Decode()
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	next, effects := s.widget.Apply(state, ev)
	for _, eff := range effects {
		if nav, ok := eff.(typeahead.Navigate); ok {
			metrics.SearchConfirms.WithLabelValues(targetLabel(nav.URL)).Inc()
		}
	}
	return &EventsResult{State: next, Effects: typeahead.EncodeEffects(effects)}, nil
}

// Confirm resolves a submitted query the way Enter would. ok is false for
// an empty query.
func (s *SearchService) Confirm(q string, highlighted int) (string, bool) {
	target, ok := s.widget.Confirm(q, highlighted)
	if ok {
		metrics.SearchConfirms.WithLabelValues(targetLabel(target)).Inc()
	}
	return target, ok
}

func targetLabel(url string) string {
	if strings.HasPrefix(url, "/book.html") {
		return "book"
	}
	return "library"
}

// DocumentCount returns the number of indexed books, or zero without an index.
func (s *SearchService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocumentCount()
}
