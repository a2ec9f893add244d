package domain

// Book is an immutable catalog entry.
type Book struct {
	ID      string `json:"id" yaml:"id"`
	Title   string `json:"title" yaml:"title"`
	Author  string `json:"author" yaml:"author"`
	Year    int    `json:"year" yaml:"year"`
	Summary string `json:"summary" yaml:"summary"`
	Price   int    `json:"price" yaml:"price"`
	Cover   string `json:"cover" yaml:"cover"`
	PDFURL  string `json:"pdfUrl" yaml:"pdf_url"`
}

// IsFree reports whether the book costs nothing.
func (b Book) IsFree() bool {
	return b.Price == 0
}

// Affordance is what a book page offers the current visitor.
type Affordance string

const (
	// AffordanceNone is shown to guests.
	AffordanceNone Affordance = "none"
	// AffordanceBuy is shown to signed-in users who have not purchased.
	AffordanceBuy Affordance = "buy"
	// AffordanceRead is shown once the book is purchased.
	AffordanceRead Affordance = "read"
)
