package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logscope/internal/filter"
)

// sheetState is the cursor of the filter sheet.
type sheetState struct {
	section int
	item    int
	action  filter.Action
}

// sheetSection is one facet with every value seen this session.
type sheetSection struct {
	facet filter.Facet
	tags  []filter.Tag
}

func (m *Model) openFilterSheet() {
	m.screen = screenFilters
	m.sheet.section = 0
	m.sheet.item = 0
	m.clampSheet()
}

// sheetSections lists the facets in display order. Values come from the
// registry so tags stay selectable after they filter everything out.
func (m Model) sheetSections() []sheetSection {
	reg := m.session.Registry()
	sections := make([]sheetSection, 0, len(filter.Facets))
	for _, f := range filter.Facets {
		sections = append(sections, sheetSection{facet: f, tags: reg.Tags(f)})
	}
	return sections
}

func (m *Model) clampSheet() {
	sections := m.sheetSections()
	m.sheet.section = min(max(m.sheet.section, 0), len(sections)-1)
	n := len(sections[m.sheet.section].tags)
	m.sheet.item = min(max(m.sheet.item, 0), max(n-1, 0))
}

// focusedTag returns the tag under the sheet cursor.
func (m Model) focusedTag() (filter.Tag, bool) {
	sections := m.sheetSections()
	if m.sheet.section >= len(sections) {
		return filter.Tag{}, false
	}
	tags := sections[m.sheet.section].tags
	if m.sheet.item >= len(tags) {
		return filter.Tag{}, false
	}
	return tags[m.sheet.item], true
}

// flowChips lays chips out left to right, wrapping at width.
func flowChips(chips []string, width int, bg BgStyle) []string {
	var (
		lines []string
		cur   string
		curW  int
	)
	for _, c := range chips {
		w := lipgloss.Width(c)
		if curW > 0 && curW+1+w > width {
			lines = append(lines, cur)
			cur, curW = "", 0
		}
		if curW > 0 {
			cur += bg.Space()
			curW++
		}
		cur += c
		curW += w
	}
	if curW > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// renderFilterSheet renders every facet section with its tag chips.
func (m Model) renderFilterSheet() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := max(m.width-4, 1)

	actionLine := m.renderActionPicker(m.sheet.action, bg) + bg.Spaces(2) +
		bg.Render("space", styles.AccentText) + bg.Render(" toggle  ", styles.MutedText) +
		bg.Render("a", styles.AccentText) + bg.Render(" switch  ", styles.MutedText) +
		bg.Render("c", styles.AccentText) + bg.Render(" clear all", styles.MutedText)

	lines := []string{bg.FillLine(actionLine, width)}
	for si, sec := range m.sheetSections() {
		lines = append(lines, bg.FillLine("", width))
		titleStyle := styles.MutedText.Bold(true)
		if si == m.sheet.section {
			titleStyle = styles.AccentText.Bold(true)
		}
		lines = append(lines, bg.FillLine(bg.Render(sec.facet.String(), titleStyle), width))
		if len(sec.tags) == 0 {
			lines = append(lines, bg.FillLine(bg.Render("No values yet", styles.FaintText), width))
			continue
		}
		chips := make([]string, len(sec.tags))
		for i, t := range sec.tags {
			chips[i] = m.renderTag(t, si == m.sheet.section && i == m.sheet.item, bg)
		}
		for _, l := range flowChips(chips, width, bg) {
			lines = append(lines, bg.FillLine(l, width))
		}
	}

	// Keep the focused section in view on short terminals
	height := max(m.height-4, 1)
	if len(lines) > height {
		offset := 0
		for i, l := range lines {
			if strings.Contains(l, m.sheetSections()[m.sheet.section].facet.String()) {
				offset = i
				break
			}
		}
		offset = min(offset, len(lines)-height)
		lines = lines[offset : offset+height]
	}

	title := "Filters"
	if m.view.Filter.Active() {
		title = fmt.Sprintf("Filters (%d active)", m.view.Filter.Equals.Len()+m.view.Filter.NotEquals.Len())
	}
	return m.renderBox(title, strings.Join(lines, "\n"), m.width, m.height-2, true)
}

// handleFilterSheetKey processes keyboard input for the filter sheet.
func (m Model) handleFilterSheetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sections := m.sheetSections()
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Filters):
		m.screen = screenList
		m.refresh()

	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Confirm):
		if t, ok := m.focusedTag(); ok {
			action := m.sheet.action
			m.session.UpdateFilter(func(f *filter.Filter) { f.Toggle(t, action) })
			m.refresh()
		}

	case key.Matches(msg, m.keys.SwitchAction):
		m.sheet.action = m.sheet.action.Opposite()

	case key.Matches(msg, m.keys.ClearTags):
		m.session.UpdateFilter(func(f *filter.Filter) { f.ClearAll() })
		m.refresh()

	case key.Matches(msg, m.keys.NextSection):
		m.sheet.item++
		if m.sheet.item >= len(sections[m.sheet.section].tags) {
			m.sheet.section = (m.sheet.section + 1) % len(sections)
			m.sheet.item = 0
		}
	case key.Matches(msg, m.keys.PrevSection):
		m.sheet.item--
		if m.sheet.item < 0 {
			m.sheet.section = (m.sheet.section + len(sections) - 1) % len(sections)
			m.sheet.item = max(len(sections[m.sheet.section].tags)-1, 0)
		}
	case key.Matches(msg, m.keys.Down):
		m.sheet.section = min(m.sheet.section+1, len(sections)-1)
		m.sheet.item = 0
	case key.Matches(msg, m.keys.Up):
		m.sheet.section = max(m.sheet.section-1, 0)
		m.sheet.item = 0
	}
	m.clampSheet()
	return m, nil
}
