package typeahead

// Key names the widget reacts to. Others are ignored.
const (
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyEscape    = "Escape"
	KeyEnter     = "Enter"
)

// Event is an input to the widget.
type Event interface {
	event()
}

// Input is a change of the query field's text.
type Input struct {
	Value string
}

// Key is a key press in the query field.
type Key struct {
	Name string
}

// OutsideClick is a click anywhere outside the search bar.
type OutsideClick struct{}

// SelectRow is a pointer click on the row at Index.
type SelectRow struct {
	Index int
}

// PageHide is the page being hidden or unloaded.
type PageHide struct{}

func (Input) event()        {}
func (Key) event()          {}
func (OutsideClick) event() {}
func (SelectRow) event()    {}
func (PageHide) event()     {}

// Effect is an instruction for the renderer.
type Effect interface {
	effect()
}

// Render replaces the dropdown rows. When Rows is empty, Placeholder is
// shown as a single non-interactive row.
type Render struct {
	Rows        []Suggestion
	Placeholder string
	Highlighted int
}

// Highlight moves the keyboard highlight to Index.
type Highlight struct {
	Index int
}

// Close hides and empties the dropdown.
type Close struct{}

// Navigate leaves the page for URL.
type Navigate struct {
	URL string
}

func (Render) effect()    {}
func (Highlight) effect() {}
func (Close) effect()     {}
func (Navigate) effect()  {}
