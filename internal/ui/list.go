package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logscope/internal/logentry"
)

// row is one displayed entry. Grouped rows continue the previous entry's
// subsystem, sender and category, so their header and footer are omitted.
type row struct {
	entry   logentry.Entry
	grouped bool
}

// buildRows orders entries for display: newest first, or oldest first when
// reversed. Grouping always compares an entry with its chronological predecessor.
func buildRows(entries []logentry.Entry, reversed bool) []row {
	rows := make([]row, len(entries))
	for i, e := range entries {
		rows[i] = row{entry: e, grouped: i > 0 && logentry.SameGroup(entries[i-1], e)}
	}
	if !reversed {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

// rowIndex returns the index of the row showing e, or -1.
func rowIndex(rows []row, e logentry.Entry) int {
	for i, r := range rows {
		if sameEntry(r.entry, e) {
			return i
		}
	}
	return -1
}

func sameEntry(a, b logentry.Entry) bool {
	return a.Time.Equal(b.Time) && a.Message == b.Message && a.Level == b.Level &&
		logentry.SameGroup(a, b)
}

// rowLines renders one row. The first return value holds one string per terminal line.
func (m Model) rowLines(r row, selected bool, width int) []string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	levelStyle := styles.LevelStyle(r.entry.Level)

	gutter := bg.Spaces(2)
	if selected {
		gutter = bg.Render("▌", styles.AccentText) + bg.Space()
	}
	inner := max(width-2, 1)

	var lines []string
	if r.grouped {
		lines = append(lines, bg.Render(r.entry.TimeString(), levelStyle.Faint(true)))
	} else {
		left := bg.Render(r.entry.TimeString(), levelStyle) +
			bg.Render(" • ", styles.FaintText) +
			bg.Render(displayValue(r.entry.Category), styles.Text.Bold(true))
		right := bg.Render(truncate(r.entry.Subsystem, inner/2), styles.MutedText)
		gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
		lines = append(lines, left+bg.Spaces(gap)+right)
	}

	msgStyle := styles.Text
	if selected {
		msgStyle = msgStyle.Bold(true)
	}
	for _, line := range messageLines(r.entry.Message, inner, listMessageLines) {
		lines = append(lines, bg.Render(line, msgStyle))
	}

	if !r.grouped {
		lines = append(lines,
			bg.Render(displayValue(r.entry.Sender), styles.FaintText)+
				bg.Render(" • ", styles.FaintText)+
				bg.Render(displayValue(r.entry.Level.String()), levelStyle.Faint(true)))
	}

	for i, line := range lines {
		lines[i] = bg.FillLine(gutter+line, width)
	}
	return lines
}

// renderListContent renders every row and returns the line span of the selected row.
func (m Model) renderListContent(width int) (string, int, int) {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	if len(m.rows) == 0 {
		msg := "No log entries"
		switch {
		case m.view.Loading:
			msg = m.spinner.View() + " Loading entries..."
		case len(m.view.Entries) > 0:
			msg = "No entries match the current filter and search"
		}
		return bg.FillLine(bg.Render(msg, styles.MutedText), width), 0, 0
	}

	var (
		b          strings.Builder
		line       int
		start, end int
	)
	for i, r := range m.rows {
		rl := m.rowLines(r, i == m.cursor, width)
		if i == m.cursor {
			start, end = line, line+len(rl)-1
		}
		for j, l := range rl {
			if line > 0 || j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(l)
		}
		line += len(rl)
		// Blank separator between groups
		if i+1 < len(m.rows) && !m.rowsJoined(i, i+1) {
			b.WriteString("\n")
			b.WriteString(bg.FillLine("", width))
			line++
		}
	}
	return b.String(), start, end
}

// rowsJoined reports whether two adjacent display rows belong to one group.
func (m Model) rowsJoined(a, b int) bool {
	if m.reversed {
		return m.rows[b].grouped
	}
	return m.rows[a].grouped
}

// updateListViewport re-renders the list and keeps the selected row visible.
func (m *Model) updateListViewport() {
	if m.listViewport.Width == 0 {
		return
	}
	m.listViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	content, start, end := m.renderListContent(m.listViewport.Width)
	m.listViewport.SetContent(content)

	top := m.listViewport.YOffset
	bottom := top + m.listViewport.Height - 1
	switch {
	case start < top:
		m.listViewport.SetYOffset(start)
	case end > bottom:
		m.listViewport.SetYOffset(max(end-m.listViewport.Height+1, start))
	}
}

// renderList renders the entry list.
func (m Model) renderList() string {
	title := fmt.Sprintf("Entries %d", len(m.rows))
	if len(m.view.Searched) != len(m.view.Entries) {
		title = fmt.Sprintf("Entries %d of %d", len(m.rows), len(m.view.Entries))
	}
	if m.reversed {
		title += " (oldest first)"
	} else {
		title += " (newest first)"
	}
	content := m.listViewport.View()
	return m.renderBox(title, content, m.width, m.height-2, true)
}

// handleListKey processes keyboard input for the entry list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()

	case key.Matches(msg, m.keys.Clear):
		m.session.Clear()
		m.cursor = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		m.reversed = !m.reversed
		m.savePrefs()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchInput.SetValue(m.view.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Filters):
		m.openFilterSheet()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if e, ok := m.selected(); ok {
			m.openDetail(e)
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.view.Search != "" {
			m.session.SetSearch("")
			m.refresh()
		}
		return m, nil
	}

	if len(m.rows) == 0 {
		return m, nil
	}
	page := max(m.listViewport.Height/4, 1)
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(m.rows)-1)
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.rows) - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		m.cursor = min(m.cursor+page, len(m.rows)-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.cursor = max(m.cursor-page, 0)
	case key.Matches(msg, m.keys.PageDown):
		m.cursor = min(m.cursor+2*page, len(m.rows)-1)
	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(m.cursor-2*page, 0)
	default:
		return m, nil
	}
	m.updateListViewport()
	return m, nil
}

// handleSearchInput handles keyboard input while the search field is focused.
// The search is applied as the user types.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.session.SetSearch("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != m.view.Search {
		m.session.SetSearch(m.searchInput.Value())
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

// renderBox draws a rounded border with a title around content.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Padding(0, 1).
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Render(content)

	// Splice the title into the top border
	lines := strings.Split(box, "\n")
	if len(lines) > 0 && title != "" {
		label := styles.AccentText.Bold(true).Render(" " + title + " ")
		border := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
		fill := max(width-4-lipgloss.Width(label), 0)
		lines[0] = border.Render("╭─") + label + border.Render(strings.Repeat("─", fill)+"╮")
	}
	return strings.Join(lines, "\n")
}
