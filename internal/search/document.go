package search

import "github.com/bookclub/bookclub-server/internal/domain"

// Document is the indexed form of a book.
type Document struct {
	ID      string
	Title   string
	Author  string
	Summary string
	Year    int
}

// FromBook converts a catalog book into a Document.
func FromBook(b domain.Book) *Document {
	return &Document{
		ID:      b.ID,
		Title:   b.Title,
		Author:  b.Author,
		Summary: b.Summary,
		Year:    b.Year,
	}
}

// toMap keys fields by their mapping names.
func (d *Document) toMap() map[string]any {
	return map[string]any{
		"id":      d.ID,
		"title":   d.Title,
		"author":  d.Author,
		"summary": d.Summary,
		"year":    float64(d.Year),
	}
}
