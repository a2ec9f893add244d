package domain

import "time"

// Rating is one user's star rating of a book.
type Rating struct {
	BookID   string `json:"bookId"`
	UserName string `json:"userName"`
	Stars    int    `json:"stars"`
}

// RatingSummary aggregates the ratings of one book. Average is nil until
// someone rates it; UserRating is 0 when the visitor has not rated.
type RatingSummary struct {
	Average    *float64 `json:"averageRating"`
	Total      int      `json:"totalRatings"`
	UserRating int      `json:"userRating"`
}

// Comment is a note left on a book page.
type Comment struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
