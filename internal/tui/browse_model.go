package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxKeyDisplayLen is the widest a key renders in the table before truncation.
const maxKeyDisplayLen = 40

// EntryRow is one cache entry in the browse table.
type EntryRow struct {
	// Key is the cache key as recorded in the index.
	Key string

	// Artifact is the artifact filename on disk.
	Artifact string

	// Size is the artifact size in bytes.
	Size int64

	// CachedAt is when the entry was stored.
	CachedAt time.Time

	// Stale reports whether the entry has outlived the effective TTL.
	// Always false when no TTL is configured.
	Stale bool

	// Value is the raw cached value for the detail view.
	Value json.RawMessage
}

// EntryDeleter deletes cache entries by key.
type EntryDeleter interface {
	Delete(ctx context.Context, key string) error
}

// BrowseDeleteResultMsg reports the outcome of an entry deletion.
type BrowseDeleteResultMsg struct {
	Key string
	Err error
}

// BrowseModel is the Bubble Tea model for the interactive cache browser.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type BrowseModel struct {
	// View state
	state     ViewState
	prevState ViewState
	allRows   []EntryRow // All entries (source of truth)
	rows      []EntryRow // Filtered/sorted entries
	ctx       context.Context
	store     EntryDeleter

	// Interactive components
	table     table.Model
	textInput textinput.Model
	selected  int

	// Display configuration
	width      int
	height     int
	sortBy     SortField
	showFilter bool
	statusMsg  string
}

// NewBrowseModel creates a new interactive browse model over the given rows.
// store performs deletions when the user confirms one.
func NewBrowseModel(ctx context.Context, rows []EntryRow, store EntryDeleter) BrowseModel {
	m := BrowseModel{
		state:     ViewStateList,
		allRows:   rows,
		rows:      rows,
		ctx:       ctx,
		store:     store,
		width:     defaultWidth,
		height:    defaultHeight,
		sortBy:    SortByAge,
		textInput: newTextInput(),
	}

	m.refreshTable()
	return m
}

// Init initializes the model (Bubble Tea interface).
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if winMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = winMsg.Width
		m.height = winMsg.Height
		m.rebuildTable()
		return m, nil
	}

	if deleteMsg, ok := msg.(BrowseDeleteResultMsg); ok {
		return m.handleDeleteResult(deleteMsg)
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateConfirmDelete:
		return m.handleConfirmUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m BrowseModel) handleDeleteResult(msg BrowseDeleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.statusMsg = fmt.Sprintf("delete failed: %v", msg.Err)
		m.state = ViewStateList
		return m, nil
	}

	kept := make([]EntryRow, 0, len(m.allRows))
	for _, row := range m.allRows {
		if row.Key != msg.Key {
			kept = append(kept, row)
		}
	}
	m.allRows = kept
	m.statusMsg = fmt.Sprintf("deleted %q", msg.Key)
	m.state = ViewStateList
	m.applyFilter(m.textInput.Value())
	return m, nil
}

func (m BrowseModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.applyFilter(m.textInput.Value())
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m BrowseModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m.handleListKeypress(keyMsg)
}

func (m BrowseModel) handleListKeypress(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.rows) {
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.statusMsg = ""
		m.textInput.Focus()
		return m, textinput.Blink
	case keyS:
		m.cycleSort()
		return m, nil
	case keyDelete:
		m.selected = m.table.Cursor()
		if m.selected >= 0 && m.selected < len(m.rows) {
			m.prevState = ViewStateList
			m.state = ViewStateConfirmDelete
		}
		return m, nil
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m BrowseModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyDelete:
			m.prevState = ViewStateDetail
			m.state = ViewStateConfirmDelete
			return m, nil
		case keyEsc:
			m.state = ViewStateList
			m.table.Focus()
			return m, nil
		}
	}
	return m, nil
}

func (m BrowseModel) handleConfirmUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyYes:
			return m, m.deleteSelectedCmd()
		case keyNo, keyEsc:
			m.state = m.prevState
			return m, nil
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

// deleteSelectedCmd returns a command that deletes the selected entry.
func (m BrowseModel) deleteSelectedCmd() tea.Cmd {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}

	key := m.rows[m.selected].Key
	ctx := m.ctx
	store := m.store

	return func() tea.Msg {
		return BrowseDeleteResultMsg{Key: key, Err: store.Delete(ctx, key)}
	}
}

// cycleSort advances to the next sort field.
func (m *BrowseModel) cycleSort() {
	m.sortBy = (m.sortBy + 1) % numSortFields
	m.refreshTable()
}

// refreshTable re-sorts and rebuilds the table.
func (m *BrowseModel) refreshTable() {
	switch m.sortBy {
	case SortByAge:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].CachedAt.After(m.rows[j].CachedAt)
		})
	case SortByKey:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].Key < m.rows[j].Key
		})
	case SortBySize:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].Size > m.rows[j].Size
		})
	}

	m.rebuildTable()
}

// rebuildTable reconstructs the table with current rows and dimensions.
func (m *BrowseModel) rebuildTable() {
	m.table = m.buildBrowseTable()
}

// buildBrowseTable creates a new table model with current configuration.
func (m *BrowseModel) buildBrowseTable() table.Model {
	columns := []table.Column{
		{Title: "Key", Width: 40},      //nolint:mnd // Column width.
		{Title: "Age", Width: 10},      //nolint:mnd // Column width.
		{Title: "Size", Width: 10},     //nolint:mnd // Column width.
		{Title: "Status", Width: 8},    //nolint:mnd // Column width.
		{Title: "Artifact", Width: 24}, //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(m.rows))
	for i, entry := range m.rows {
		status := "fresh"
		if entry.Stale {
			status = "stale"
		}

		rows[i] = table.Row{
			truncateKey(entry.Key),
			FormatAge(time.Since(entry.CachedAt)),
			FormatBytes(entry.Size),
			status,
			entry.Artifact,
		}
	}

	availableHeight := m.height - statusBarHeight - 1
	if availableHeight < minTableHeight {
		availableHeight = minTableHeight
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(availableHeight),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// truncateKey shortens a key for table display.
func truncateKey(key string) string {
	if len(key) <= maxKeyDisplayLen {
		return key
	}
	return key[:maxKeyDisplayLen-3] + "..."
}

// applyFilter filters rows on the key substring. It always calls refreshTable
// to keep the table consistent with the filtered set.
func (m *BrowseModel) applyFilter(filterText string) {
	if filterText == "" {
		m.rows = m.allRows
	} else {
		query := strings.ToLower(filterText)
		filtered := []EntryRow{}

		for _, row := range m.allRows {
			if strings.Contains(strings.ToLower(row.Key), query) {
				filtered = append(filtered, row)
			}
		}

		m.rows = filtered
	}

	m.refreshTable()
}

// Rows returns the currently visible rows (for external access).
func (m *BrowseModel) Rows() []EntryRow {
	return m.rows
}

// FormatAge renders a duration compactly for table columns.
func FormatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%.1fh", d.Hours())
	default:
		return fmt.Sprintf("%.1fd", d.Hours()/24) //nolint:mnd // Hours per day.
	}
}

// FormatBytes renders a byte count compactly for table columns.
func FormatBytes(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%dB", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1fKB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(unit*unit))
	}
}
