package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logscope/internal/filter"
)

// tagChipText renders the plain text of a tag chip. Excluded tags carry the
// ≠ marker and never show a count; other tags show the number of matching
// entries when there are any.
func tagChipText(label string, state filter.State, count int) string {
	label = displayValue(label)
	switch {
	case state == filter.Excluded:
		return "≠ " + label
	case count > 0:
		return fmt.Sprintf("%s · %d", label, count)
	default:
		return label
	}
}

// renderTag renders a tag chip colored by its filter state.
func (m Model) renderTag(t filter.Tag, focused bool, bg BgStyle) string {
	styles := m.theme.Styles()
	state := m.view.Filter.StateOf(t)
	count := m.view.Stats.Count(t)

	var style lipgloss.Style
	switch {
	case state == filter.Included:
		style = styles.IncludeText
	case state == filter.Excluded:
		style = styles.ExcludeText
	case count > 0:
		style = styles.Text
	default:
		style = styles.FaintText
	}
	if t.Facet == filter.FacetLevel && state == filter.Unset {
		style = styles.LevelStyle(t.Level)
		if count == 0 {
			style = style.Faint(true)
		}
	}

	text := "[" + tagChipText(t.Label(), state, count) + "]"
	if focused {
		return styles.Selected.Render(text)
	}
	return bg.Render(text, style)
}

// renderActionPicker renders the Show/Hide switch with the active action highlighted.
func (m Model) renderActionPicker(action filter.Action, bg BgStyle) string {
	styles := m.theme.Styles()
	render := func(a filter.Action, style lipgloss.Style) string {
		if a == action {
			return bg.Render("["+a.String()+"]", style.Bold(true))
		}
		return bg.Render(" "+a.String()+" ", styles.FaintText)
	}
	return render(filter.ActionInclude, styles.IncludeText) + bg.Space() +
		render(filter.ActionExclude, styles.ExcludeText.Strikethrough(false))
}
