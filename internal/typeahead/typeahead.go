// Package typeahead implements the header search dropdown as a pure state
// machine. Apply takes the current State and an input Event and returns
// the next State plus the Effects a renderer must carry out.
package typeahead

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"github.com/bookclub/bookclub-server/internal/domain"
)

// NoResults is the text of the placeholder row shown for zero matches.
const NoResults = "No books found"

// Mode is the dropdown's visible state.
type Mode string

const (
	// ModeClosed renders nothing.
	ModeClosed Mode = "closed"
	// ModeOpen shows one row per match.
	ModeOpen Mode = "open"
	// ModeEmpty shows only the non-interactive placeholder row.
	ModeEmpty Mode = "empty"
)

// Suggestion is one selectable row.
type Suggestion struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// State is everything the widget remembers between events. Highlighted is
// -1 when no row is highlighted, otherwise an index into Matches.
type State struct {
	Query       string       `json:"query"`
	Mode        Mode         `json:"mode" enum:"closed,open,empty"`
	Matches     []Suggestion `json:"matches"`
	Highlighted int          `json:"highlighted"`
}

// Closed returns the initial state.
func Closed() State {
	return State{Mode: ModeClosed, Matches: []Suggestion{}, Highlighted: -1}
}

// Routes builds navigation targets.
type Routes struct {
	Book    func(id string) string
	Library func(query string) string
}

// DefaultRoutes links to the server's book and library pages.
func DefaultRoutes() Routes {
	return Routes{
		Book: func(id string) string {
			return "/book.html?id=" + url.QueryEscape(id)
		},
		Library: func(query string) string {
			return "/library.html?q=" + url.QueryEscape(query)
		},
	}
}

// Widget holds the searchable titles. It is immutable and safe for
// concurrent use; all per-visitor data lives in State.
type Widget struct {
	entries []Suggestion
	folded  []string
	routes  Routes
}

// New creates a Widget over entries in display order.
func New(entries []Suggestion, routes Routes) *Widget {
	w := &Widget{
		entries: make([]Suggestion, len(entries)),
		folded:  make([]string, len(entries)),
		routes:  routes,
	}
	copy(w.entries, entries)
	for i, e := range entries {
		w.folded[i] = fold(e.Title)
	}
	return w
}

// FromBooks creates a Widget over catalog books.
func FromBooks(books []domain.Book, routes Routes) *Widget {
	entries := make([]Suggestion, len(books))
	for i, b := range books {
		entries[i] = Suggestion{ID: b.ID, Title: b.Title}
	}
	return New(entries, routes)
}

// Match returns the entries whose title starts with the trimmed query,
// ignoring case. An empty query matches nothing.
func (w *Widget) Match(query string) []Suggestion {
	q := fold(strings.TrimSpace(query))
	matches := []Suggestion{}
	if q == "" {
		return matches
	}
	for i, title := range w.folded {
		if strings.HasPrefix(title, q) {
			matches = append(matches, w.entries[i])
		}
	}
	return matches
}

// Apply advances the state machine by one event.
func (w *Widget) Apply(s State, ev Event) (State, []Effect) {
	s = normalize(s)

	switch e := ev.(type) {
	case Input:
		return w.input(e.Value)
	case Key:
		return w.key(s, e.Name)
	case OutsideClick, PageHide:
		return closeDropdown(s)
	case SelectRow:
		if s.Mode != ModeOpen || e.Index < 0 || e.Index >= len(s.Matches) {
			return s, nil
		}
		return s, []Effect{Navigate{URL: w.routes.Book(s.Matches[e.Index].ID)}}
	default:
		return s, nil
	}
}

// Confirm resolves a query as if it had been typed and Enter pressed with
// the given row highlighted (-1 for none). ok is false for an empty query.
func (w *Widget) Confirm(query string, highlighted int) (target string, ok bool) {
	s, _ := w.input(query)
	if s.Mode == ModeOpen && highlighted >= 0 && highlighted < len(s.Matches) {
		s.Highlighted = highlighted
	}
	_, effects := w.key(s, KeyEnter)
	for _, eff := range effects {
		if nav, isNav := eff.(Navigate); isNav {
			return nav.URL, true
		}
	}
	return "", false
}

func (w *Widget) input(value string) (State, []Effect) {
	if strings.TrimSpace(value) == "" {
		next := Closed()
		next.Query = value
		return next, []Effect{Close{}}
	}

	matches := w.Match(value)
	next := State{Query: value, Matches: matches, Highlighted: -1}
	if len(matches) == 0 {
		next.Mode = ModeEmpty
		return next, []Effect{Render{Rows: matches, Placeholder: NoResults, Highlighted: -1}}
	}
	next.Mode = ModeOpen
	return next, []Effect{Render{Rows: matches, Highlighted: -1}}
}

func (w *Widget) key(s State, name string) (State, []Effect) {
	switch name {
	case KeyArrowDown, KeyArrowUp:
		n := len(s.Matches)
		if s.Mode != ModeOpen || n == 0 {
			return s, nil
		}
		if name == KeyArrowDown {
			s.Highlighted = (s.Highlighted + 1) % n
		} else {
			s.Highlighted = (s.Highlighted - 1 + n) % n
		}
		return s, []Effect{Highlight{Index: s.Highlighted}}

	case KeyEscape:
		return closeDropdown(s)

	case KeyEnter:
		q := strings.TrimSpace(s.Query)
		if q == "" {
			return s, nil
		}
		if s.Mode == ModeOpen && s.Highlighted >= 0 && s.Highlighted < len(s.Matches) {
			return s, []Effect{Navigate{URL: w.routes.Book(s.Matches[s.Highlighted].ID)}}
		}
		if len(s.Matches) == 1 {
			return s, []Effect{Navigate{URL: w.routes.Book(s.Matches[0].ID)}}
		}
		return s, []Effect{Navigate{URL: w.routes.Library(q)}}

	default:
		return s, nil
	}
}

// closeDropdown drops the dropdown along with its matches and highlight. The query
// text stays, since the input field keeps it.
func closeDropdown(s State) (State, []Effect) {
	if s.Mode == ModeClosed {
		return s, nil
	}
	next := Closed()
	next.Query = s.Query
	return next, []Effect{Close{}}
}

// normalize repairs states that arrive from clients.
func normalize(s State) State {
	if s.Matches == nil {
		s.Matches = []Suggestion{}
	}
	switch s.Mode {
	case ModeOpen:
		if len(s.Matches) == 0 {
			s.Mode = ModeEmpty
		}
	case ModeEmpty:
		s.Matches = []Suggestion{}
	default:
		s.Mode = ModeClosed
		s.Matches = []Suggestion{}
	}
	if s.Highlighted < -1 || s.Highlighted >= len(s.Matches) || s.Mode != ModeOpen {
		s.Highlighted = -1
	}
	return s
}

func fold(s string) string {
	return cases.Fold().String(s)
}
