// Package metrics exposes Prometheus counters for the book club flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookclub"

// Outcome label values. Failures use the lowercased domain error code.
const (
	OutcomeOK = "ok"
)

var (
	// SignUps counts sign-up submissions by outcome.
	SignUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signups_total",
			Help:      "Sign-up submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// SignIns counts sign-in submissions by outcome.
	SignIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signins_total",
			Help:      "Sign-in submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// Logouts counts logouts.
	Logouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logouts.",
		},
	)

	// Purchases counts recorded purchases per book.
	Purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchases recorded, by book id.",
		},
		[]string{"book_id"},
	)

	// Ratings counts star ratings recorded per book.
	Ratings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_total",
			Help:      "Star ratings recorded, by book id.",
		},
		[]string{"book_id"},
	)

	// Comments counts comments posted per book.
	Comments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_total",
			Help:      "Comments posted, by book id.",
		},
		[]string{"book_id"},
	)

	// SearchConfirms counts resolved search confirmations by target page.
	SearchConfirms = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_confirms_total",
			Help:      "Search confirmations by navigation target (book or library).",
		},
		[]string{"target"},
	)

	// RateLimited counts requests rejected by the auth rate limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the auth rate limiter.",
		},
	)
)
