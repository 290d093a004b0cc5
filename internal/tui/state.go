package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// ViewState identifies which view the browse model is showing.
type ViewState int

const (
	// ViewStateList shows the entry table.
	ViewStateList ViewState = iota

	// ViewStateDetail shows a single entry.
	ViewStateDetail

	// ViewStateConfirmDelete asks before deleting the selected entry.
	ViewStateConfirmDelete

	// ViewStateQuitting means the program is shutting down.
	ViewStateQuitting
)

// SortField identifies the active sort order for the entry table.
type SortField int

const (
	// SortByAge orders newest entries first.
	SortByAge SortField = iota

	// SortByKey orders entries lexically by key.
	SortByKey

	// SortBySize orders largest entries first.
	SortBySize

	// numSortFields is the number of sort fields for cycling.
	numSortFields
)

// Key bindings shared across views.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySlash  = "/"
	keyS      = "s"
	keyDelete = "d"
	keyYes    = "y"
	keyNo     = "n"
)

// Default viewport dimensions before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
)

// Table layout constants.
const (
	statusBarHeight = 2
	minTableHeight  = 5
	borderPadding   = 2
)

// filterInputLimit caps filter input length.
const filterInputLimit = 128

// newTextInput creates the filter input used by the list view.
func newTextInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "filter by key"
	ti.CharLimit = filterInputLimit
	ti.Width = 40 //nolint:mnd // Input field width.
	return ti
}
