package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclub/bookclub-server/internal/catalog"
	domainerrors "github.com/bookclub/bookclub-server/internal/errors"
	idgen "github.com/bookclub/bookclub-server/internal/id"
	"github.com/bookclub/bookclub-server/internal/store"
)

func signedIn(t *testing.T, s Scope, name string) Scope {
	t.Helper()
	tab := newTab(t, s)
	require.NoError(t, NewSessionFlags(tab.Session).Set(context.Background(), name))
	return tab
}

func TestReviewLedger_Summary(t *testing.T) {
	ctx := context.Background()
	scope := newScope(t)
	ledger := NewReviewLedger(scope.Persistent)

	sum := ledger.Summary(ctx, "moby-dick", "Ann")
	assert.Nil(t, sum.Average)
	assert.Zero(t, sum.Total)
	assert.Zero(t, sum.UserRating)

	require.NoError(t, ledger.Rate(ctx, "moby-dick", "Ann", 2))
	require.NoError(t, ledger.Rate(ctx, "moby-dick", "Bob", 5))
	require.NoError(t, ledger.Rate(ctx, "moby-dick", "Ann", 4))
	require.NoError(t, ledger.Rate(ctx, "shakespeare", "Ann", 1))

	sum = ledger.Summary(ctx, "moby-dick", "Ann")
	require.NotNil(t, sum.Average)
	assert.InDelta(t, 4.5, *sum.Average, 0.0001)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 4, sum.UserRating)

	assert.Zero(t, ledger.Summary(ctx, "moby-dick", "").UserRating)

	require.NoError(t, scope.Persistent.Set(ctx, store.KeyRatings, "{broken"))
	assert.Nil(t, ledger.Summary(ctx, "moby-dick", "Ann").Average)
}

func TestBookService_Rate(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(catalog.MustDefault(), testLogger())
	device := newScope(t)

	_, err := svc.Rate(ctx, device, "moby-dick", 4)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.Equal(t, MsgSignInToRate, domainerrors.MessageOf(err))

	ann := signedIn(t, device, "Ann")
	_, err = svc.Rate(ctx, ann, "nope", 4)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	for _, stars := range []int{0, 6, -1} {
		_, err = svc.Rate(ctx, ann, "moby-dick", stars)
		assert.ErrorIs(t, err, domainerrors.ErrValidation, "stars %d", stars)
		assert.Equal(t, MsgStarsOutOfRange, domainerrors.MessageOf(err))
	}

	rating, err := svc.Rate(ctx, ann, "moby-dick", 3)
	require.NoError(t, err)
	assert.Equal(t, "moby-dick", rating.BookID)
	assert.Equal(t, "Ann", rating.UserName)
	assert.Equal(t, 3, rating.Stars)

	_, err = svc.Rate(ctx, ann, "moby-dick", 5)
	require.NoError(t, err)
	_, err = svc.Rate(ctx, signedIn(t, device, "Bob"), "moby-dick", 2)
	require.NoError(t, err)

	view, err := svc.Detail(ctx, ann, "moby-dick")
	require.NoError(t, err)
	require.NotNil(t, view.Rating.Average)
	assert.InDelta(t, 3.5, *view.Rating.Average, 0.0001)
	assert.Equal(t, 2, view.Rating.Total)
	assert.Equal(t, 5, view.Rating.UserRating)

	guest, err := svc.Detail(ctx, newTab(t, device), "moby-dick")
	require.NoError(t, err)
	assert.Equal(t, 2, guest.Rating.Total)
	assert.Zero(t, guest.Rating.UserRating)

	other, err := svc.Detail(ctx, signedIn(t, newScope(t), "Ann"), "moby-dick")
	require.NoError(t, err)
	assert.Nil(t, other.Rating.Average, "ratings stay on the device that made them")
}

func TestBookService_Comments(t *testing.T) {
	ctx := context.Background()
	svc := NewBookService(catalog.MustDefault(), testLogger())
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	device := newScope(t)

	_, err := svc.AddComment(ctx, device, "shakespeare", "To be")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.Equal(t, MsgSignInToComment, domainerrors.MessageOf(err))

	ann := signedIn(t, device, "Ann")
	_, err = svc.AddComment(ctx, ann, "nope", "hello")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = svc.AddComment(ctx, ann, "shakespeare", "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, MsgCommentEmpty, domainerrors.MessageOf(err))

	_, err = svc.AddComment(ctx, ann, "shakespeare", strings.Repeat("é", MaxCommentLength+1))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, MsgCommentTooLong, domainerrors.MessageOf(err))

	_, err = svc.AddComment(ctx, ann, "shakespeare", strings.Repeat("é", MaxCommentLength))
	require.NoError(t, err)

	first, err := svc.AddComment(ctx, ann, "shakespeare", "  To be  ")
	require.NoError(t, err)
	assert.Equal(t, "To be", first.Content)
	assert.Equal(t, "Ann", first.UserName)
	assert.True(t, idgen.Valid(idgen.PrefixComment, first.ID))

	second, err := svc.AddComment(ctx, signedIn(t, device, "Bob"), "shakespeare", "or not")
	require.NoError(t, err)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	list, err := svc.Comments(ctx, newTab(t, device), "shakespeare")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"or not", "To be"}, []string{list[0].Content, list[1].Content})

	empty, err := svc.Comments(ctx, device, "moby-dick")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.Comments(ctx, device, "nope")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
