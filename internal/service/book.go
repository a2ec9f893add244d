package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookclub/bookclub-server/internal/catalog"
	"github.com/bookclub/bookclub-server/internal/domain"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	"github.com/bookclub/bookclub-server/internal/metrics"
)

// MsgBookNotFound is the book page placeholder for an unknown id.
const MsgBookNotFound = "Book not found."

// BookView is a book page: the book plus what the visitor may do with it.
type BookView struct {
	Book       domain.Book          `json:"book"`
	Affordance domain.Affordance    `json:"affordance" enum:"none,buy,read"`
	Purchased  bool                 `json:"purchased"`
	Rating     domain.RatingSummary `json:"rating"`
}

// BookService serves book pages, purchases and reviews.
type BookService struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewBookService creates a BookService.
func NewBookService(c *catalog.Catalog, logger *slog.Logger) *BookService {
	return &BookService{catalog: c, logger: logger, now: time.Now}
}

// List returns the whole catalog.
func (s *BookService) List() []domain.Book {
	return s.catalog.All()
}

// Get returns one book or a NOT_FOUND error.
func (s *BookService) Get(id string) (domain.Book, error) {
	b, ok := s.catalog.GetByID(id)
	if !ok {
		return domain.Book{}, domainerrors.NotFound(MsgBookNotFound)
	}
	return b, nil
}

// Detail builds the book page for the visitor in scope. Guests get no
// affordance; signed-in visitors may buy or, once bought, read. Everyone
// sees the rating summary.
func (s *BookService) Detail(ctx context.Context, scope Scope, id string) (*BookView, error) {
	b, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	view := &BookView{Book: b, Affordance: domain.AffordanceNone}
	flag := NewSessionFlags(scope.Session).Current(ctx)
	view.Rating = NewReviewLedger(scope.Persistent).Summary(ctx, id, flag.DisplayName)
	if !flag.Authenticated {
		return view, nil
	}

	view.Purchased = NewPurchaseLedger(scope.Persistent).HasPurchased(ctx, id)
	if view.Purchased {
		view.Affordance = domain.AffordanceRead
	} else {
		view.Affordance = domain.AffordanceBuy
	}
	return view, nil
}

// Purchase records id in the visitor's ledger. The session must be signed
// in and the book must exist. Buying twice appends twice.
func (s *BookService) Purchase(ctx context.Context, scope Scope, id string) (*BookView, error) {
	if !NewSessionFlags(scope.Session).Current(ctx).Authenticated {
		return nil, domainerrors.Unauthorized("Please sign in to purchase books.")
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	if err := NewPurchaseLedger(scope.Persistent).Purchase(ctx, id); err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}
	metrics.Purchases.WithLabelValues(id).Inc()
	s.logger.Info("book purchased", "book_id", id)

	return s.Detail(ctx, scope, id)
}

// Purchases lists the books the visitor has bought, in catalog order,
// without duplicates.
func (s *BookService) Purchases(ctx context.Context, scope Scope) []domain.Book {
	ledger := NewPurchaseLedger(scope.Persistent)
	owned := make(map[string]bool)
	for _, id := range ledger.List(ctx) {
		owned[id] = true
	}

	out := []domain.Book{}
	for _, b := range s.catalog.All() {
		if owned[b.ID] {
			out = append(out, b)
		}
	}
	return out
}
