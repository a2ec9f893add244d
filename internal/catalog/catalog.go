// Package catalog is the static, read-only list of books the club offers.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bookclub/bookclub-server/internal/domain"
)

//go:embed books.yaml
var booksYAML []byte

// Catalog is an ordered, immutable set of books.
type Catalog struct {
	books []domain.Book
}

// New builds a catalog from books, rejecting empty or duplicate ids.
func New(books []domain.Book) (*Catalog, error) {
	seen := make(map[string]struct{}, len(books))
	for i, b := range books {
		if strings.TrimSpace(b.ID) == "" {
			return nil, fmt.Errorf("book %d has no id", i)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("duplicate book id %q", b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	c := &Catalog{books: make([]domain.Book, len(books))}
	copy(c.books, books)
	return c, nil
}

// Parse builds a catalog from a YAML list of books.
func Parse(data []byte) (*Catalog, error) {
	var books []domain.Book
	if err := yaml.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(books)
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(booksYAML)
}

// MustDefault is Default for callers that cannot proceed without it.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// GetByID returns the book with exactly this id.
func (c *Catalog) GetByID(id string) (domain.Book, bool) {
	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

// All returns the books in catalog order. The slice is a copy.
func (c *Catalog) All() []domain.Book {
	out := make([]domain.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}
