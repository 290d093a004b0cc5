package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// maxValueDisplayLines caps how much of a cached value the detail view shows.
const maxValueDisplayLines = 30

// cachedAtLayout formats entry timestamps in detail views.
const cachedAtLayout = "2006-01-02 15:04:05 MST"

// View renders the current view (Bubble Tea interface).
func (m BrowseModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateConfirmDelete:
		return m.renderConfirmView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

// renderListView renders the main table view with optional filter input.
func (m BrowseModel) renderListView() string {
	var sections []string

	sections = append(sections, m.table.View())
	sections = append(sections, m.renderStatusBar())

	if m.statusMsg != "" {
		sections = append(sections, InfoStyle.Render(m.statusMsg))
	}

	if m.showFilter {
		filterView := LabelStyle.Render("Filter: ") + m.textInput.View()
		sections = append(sections, filterView)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar displays entry count, sort field, and key hints.
func (m BrowseModel) renderStatusBar() string {
	filterStatus := ""
	if m.textInput.Value() != "" {
		filterStatus = fmt.Sprintf(" | Filtered: %d/%d", len(m.rows), len(m.allRows))
	}

	status := fmt.Sprintf(
		"%d entries | Sort: %s%s | Press 's' to cycle, '/' to filter, 'd' to delete, 'q' to quit",
		len(m.rows), m.sortLabel(), filterStatus,
	)
	return SubtleStyle.Render(status)
}

// sortLabel returns the human-readable label for the current sort field.
func (m BrowseModel) sortLabel() string {
	switch m.sortBy {
	case SortByAge:
		return "Age"
	case SortByKey:
		return "Key"
	case SortBySize:
		return "Size"
	default:
		return "Unknown"
	}
}

// renderDetailView renders the detail view for the selected entry.
func (m BrowseModel) renderDetailView() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return "selected entry out of bounds"
	}

	row := m.rows[m.selected]
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("CACHE ENTRY"))
	content.WriteString("\n\n")
	content.WriteString(LabelStyle.Render("Key:       "))
	content.WriteString(ValueStyle.Render(row.Key))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Artifact:  "))
	content.WriteString(ValueStyle.Render(row.Artifact))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Cached At: "))
	content.WriteString(ValueStyle.Render(row.CachedAt.Format(cachedAtLayout)))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Age:       "))
	content.WriteString(ValueStyle.Render(FormatAge(time.Since(row.CachedAt))))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Size:      "))
	content.WriteString(ValueStyle.Render(FormatBytes(row.Size)))
	content.WriteString("\n")
	content.WriteString(LabelStyle.Render("Status:    "))
	if row.Stale {
		content.WriteString(WarningStyle.Render(IconStale + " stale"))
	} else {
		content.WriteString(InfoStyle.Render(IconFresh + " fresh"))
	}
	content.WriteString("\n\n")

	renderDetailValue(&content, row.Value)

	content.WriteString(SubtleStyle.Render("\nPress 'd' to delete, ESC to return"))

	return BoxStyle.Width(m.width - borderPadding).Render(content.String())
}

// renderDetailValue writes the cached value as indented JSON, truncated when
// it would flood the screen.
func renderDetailValue(content *strings.Builder, value json.RawMessage) {
	content.WriteString(HeaderStyle.Render("VALUE"))
	content.WriteString("\n")

	if len(value) == 0 {
		content.WriteString(SubtleStyle.Render("(empty)"))
		content.WriteString("\n")
		return
	}

	var pretty bytes.Buffer
	rendered := string(value)
	if err := json.Indent(&pretty, value, "", "  "); err == nil {
		rendered = pretty.String()
	}

	lines := strings.Split(rendered, "\n")
	if len(lines) > maxValueDisplayLines {
		hidden := len(lines) - maxValueDisplayLines
		lines = lines[:maxValueDisplayLines]
		lines = append(lines, SubtleStyle.Render(fmt.Sprintf("... (%d more lines)", hidden)))
	}

	content.WriteString(strings.Join(lines, "\n"))
	content.WriteString("\n")
}

// renderConfirmView renders the delete confirmation prompt over the
// originating view.
func (m BrowseModel) renderConfirmView() string {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return "selected entry out of bounds"
	}

	prompt := CriticalStyle.Render(
		fmt.Sprintf("Delete entry %q? (y/n)", truncateKey(m.rows[m.selected].Key)),
	)

	base := m.renderListView()
	if m.prevState == ViewStateDetail {
		base = m.renderDetailView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, base, prompt)
}
