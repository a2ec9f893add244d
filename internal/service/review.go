package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bookclub/bookclub-server/internal/domain"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	idgen "github.com/bookclub/bookclub-server/internal/id"
	"github.com/bookclub/bookclub-server/internal/metrics"
	"github.com/bookclub/bookclub-server/internal/store"
)

// Review limits.
const (
	MinStars         = 1
	MaxStars         = 5
	MaxCommentLength = 1000
)

// Review messages.
const (
	MsgSignInToRate    = "Please sign in to rate books."
	MsgSignInToComment = "Please sign in to comment on books."
	MsgStarsOutOfRange = "Rating must be between 1 and 5 stars."
	MsgCommentEmpty    = "Comment cannot be empty."
	MsgCommentTooLong  = "Comment must be at most 1000 characters."
)

// ReviewLedger keeps this device's star ratings and comments. Ratings are
// one per user per book; comments are appended in the order written.
type ReviewLedger struct {
	kv store.KV
}

// NewReviewLedger returns a ledger over persistent kv.
func NewReviewLedger(kv store.KV) *ReviewLedger {
	return &ReviewLedger{kv: kv}
}

// ratings maps book id to user name to stars.
func (l *ReviewLedger) ratings(ctx context.Context) map[string]map[string]int {
	all := store.LoadJSON[map[string]map[string]int](ctx, l.kv, store.KeyRatings)
	if all == nil {
		return map[string]map[string]int{}
	}
	return all
}

// Rate records userName's stars for bookID, replacing an earlier rating.
func (l *ReviewLedger) Rate(ctx context.Context, bookID, userName string, stars int) error {
	all := l.ratings(ctx)
	if all[bookID] == nil {
		all[bookID] = map[string]int{}
	}
	all[bookID][userName] = stars
	return store.SaveJSON(ctx, l.kv, store.KeyRatings, all)
}

// Summary aggregates bookID's ratings. userName may be empty for guests.
func (l *ReviewLedger) Summary(ctx context.Context, bookID, userName string) domain.RatingSummary {
	byUser := l.ratings(ctx)[bookID]

	var sum domain.RatingSummary
	stars := 0
	for _, v := range byUser {
		stars += v
	}
	if n := len(byUser); n > 0 {
		avg := float64(stars) / float64(n)
		sum.Average = &avg
		sum.Total = n
	}
	if userName != "" {
		sum.UserRating = byUser[userName]
	}
	return sum
}

// Comments returns bookID's comments, newest first.
func (l *ReviewLedger) Comments(ctx context.Context, bookID string) []domain.Comment {
	list := store.LoadJSON[[]domain.Comment](ctx, l.kv, store.KeyComments(bookID))
	out := slices.Clone(list)
	slices.Reverse(out)
	if out == nil {
		return []domain.Comment{}
	}
	return out
}

// AddComment appends c to its book's comments.
func (l *ReviewLedger) AddComment(ctx context.Context, c domain.Comment) error {
	key := store.KeyComments(c.BookID)
	list := append(store.LoadJSON[[]domain.Comment](ctx, l.kv, key), c)
	return store.SaveJSON(ctx, l.kv, key, list)
}

// Rate stores the signed-in visitor's rating of id and returns it. A
// second rating by the same user replaces the first.
func (s *BookService) Rate(ctx context.Context, scope Scope, id string, stars int) (*domain.Rating, error) {
	flag := NewSessionFlags(scope.Session).Current(ctx)
	if !flag.Authenticated {
		return nil, domainerrors.Unauthorized(MsgSignInToRate)
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if stars < MinStars || stars > MaxStars {
		return nil, domainerrors.Validation(MsgStarsOutOfRange)
	}

	if err := NewReviewLedger(scope.Persistent).Rate(ctx, id, flag.DisplayName, stars); err != nil {
		return nil, fmt.Errorf("record rating: %w", err)
	}
	metrics.Ratings.WithLabelValues(id).Inc()
	s.logger.Info("book rated", "book_id", id, "stars", stars)

	return &domain.Rating{BookID: id, UserName: flag.DisplayName, Stars: stars}, nil
}

// Comments lists the comments on id, newest first. Anyone may read them.
func (s *BookService) Comments(ctx context.Context, scope Scope, id string) ([]domain.Comment, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return NewReviewLedger(scope.Persistent).Comments(ctx, id), nil
}

// AddComment posts content on id as the signed-in visitor. Content is
// trimmed and must hold between 1 and MaxCommentLength characters.
func (s *BookService) AddComment(ctx context.Context, scope Scope, id, content string) (*domain.Comment, error) {
	flag := NewSessionFlags(scope.Session).Current(ctx)
	if !flag.Authenticated {
		return nil, domainerrors.Unauthorized(MsgSignInToComment)
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.Validation(MsgCommentEmpty)
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return nil, domainerrors.Validation(MsgCommentTooLong)
	}

	commentID, err := idgen.Generate(idgen.PrefixComment)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "could not post comment")
	}
	c := domain.Comment{
		ID:        commentID,
		BookID:    id,
		UserName:  flag.DisplayName,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := NewReviewLedger(scope.Persistent).AddComment(ctx, c); err != nil {
		return nil, fmt.Errorf("record comment: %w", err)
	}
	metrics.Comments.WithLabelValues(id).Inc()
	s.logger.Info("comment posted", "book_id", id, "comment_id", c.ID)

	return &c, nil
}
