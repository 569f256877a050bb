package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: source, counts, filter and load state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := "  "

	parts := []string{bg.Render("logscope", styles.Logo)}

	if m.source != "" {
		limit := 50
		if compact {
			limit = 24
		}
		parts = append(parts, bg.Render(truncateMiddle(m.source, limit), styles.MutedText))
	}

	shown := len(m.view.Searched)
	total := len(m.view.Entries)
	countStyle := styles.Text
	if shown < total {
		countStyle = styles.InfoText
	}
	parts = append(parts,
		bg.Render("Entries:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d/%d", shown, total), countStyle))

	if n := m.view.Filter.Equals.Len() + m.view.Filter.NotEquals.Len(); n > 0 {
		parts = append(parts,
			bg.Render("Filters:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.AccentText))
	}

	if m.view.Search != "" && !m.searchActive {
		parts = append(parts,
			bg.Render("/", styles.MutedText)+bg.Render(truncate(m.view.Search, 30), styles.WarningText))
	}

	if m.view.Loading {
		parts = append(parts, bg.Render(m.spinner.View()+" loading", styles.WarningText))
	} else if !m.view.LastUpdated.IsZero() && !compact {
		parts = append(parts, bg.Render(m.view.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	if m.view.Err != nil {
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.view.Err.Error(), 60), styles.DangerText))
	}

	if m.status != "" {
		parts = append(parts, bg.Render(truncate(m.status, 60), styles.WarningText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Render(" ", styles.Text) + bg.Join(parts, sep))
}

// renderCommandBar renders the key hints for the active screen, or the search
// field while it is focused.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searchActive {
		return bg.FillLine(bg.Space()+m.searchInput.View(), m.width)
	}

	var hints [][2]string
	switch m.screen {
	case screenDetail:
		hints = [][2]string{{"1-4", "Toggle tag"}, {"a", "Show/Hide"}, {"c", "Clear"}, {"w", "Export"}, {"esc", "Back"}}
	case screenFilters:
		hints = [][2]string{{"tab", "Next"}, {"space", "Toggle"}, {"a", "Show/Hide"}, {"c", "Clear all"}, {"esc", "Back"}}
	default:
		hints = [][2]string{{"enter", "Open"}, {"/", "Search"}, {"f", "Filters"}, {"r", "Reload"}, {"x", "Clear"}, {"o", "Order"}, {"?", "Help"}, {"q", "Quit"}}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, bg.Render(h[0], styles.AccentText)+bg.Space()+bg.Render(h[1], styles.MutedText))
	}
	return bg.FillLine(bg.Space()+bg.Join(parts, "  "), m.width)
}
