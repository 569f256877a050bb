package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logscope/internal/filter"
	"github.com/five82/logscope/internal/logentry"
)

// detailHeaderLines is the number of lines above the message viewport inside the box.
const detailHeaderLines = 4

// detailState holds the entry open in the detail view.
type detailState struct {
	entry    logentry.Entry
	action   filter.Action
	viewport viewport.Model
}

// detailTags lists the entry's tags in the order of the 1-4 keys.
func detailTags(e logentry.Entry) []filter.Tag {
	return []filter.Tag{
		filter.SubsystemTag(e.Subsystem),
		filter.CategoryTag(e.Category),
		filter.SenderTag(e.Sender),
		filter.LevelTag(e.Level),
	}
}

func (m *Model) openDetail(e logentry.Entry) {
	m.detail.entry = e
	m.screen = screenDetail
	m.resizeDetail()
	m.updateDetailViewport()
	m.detail.viewport.GotoTop()
}

func (m *Model) resizeDetail() {
	w := max(m.width-4, 1)
	h := max(m.height-4-detailHeaderLines, 1)
	if m.detail.viewport.Width == 0 {
		m.detail.viewport = viewport.New(w, h)
	}
	m.detail.viewport.Width = w
	m.detail.viewport.Height = h
}

func (m *Model) updateDetailViewport() {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.detail.viewport.Width
	m.detail.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	lines := messageLines(m.detail.entry.Message, width, 0)
	for i, l := range lines {
		lines[i] = bg.FillLine(bg.Render(l, styles.Text), width)
	}
	m.detail.viewport.SetContent(strings.Join(lines, "\n"))
}

// renderDetail renders the detail view for the open entry.
func (m Model) renderDetail() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := max(m.width-4, 1)
	e := m.detail.entry

	actionLine := m.renderActionPicker(m.detail.action, bg) + bg.Spaces(2) +
		bg.Render("a", styles.AccentText) + bg.Render(" switch  ", styles.MutedText) +
		bg.Render("c", styles.AccentText) + bg.Render(" clear  ", styles.MutedText) +
		bg.Render("w", styles.AccentText) + bg.Render(" export", styles.MutedText)

	chips := make([]string, 0, 4)
	for i, t := range detailTags(e) {
		chips = append(chips,
			bg.Render(string(rune('1'+i)), styles.AccentText)+bg.Space()+m.renderTag(t, false, bg))
	}

	header := []string{
		bg.FillLine(actionLine, width),
		bg.FillLine("", width),
		bg.FillLine(bg.Join(chips, "  "), width),
		bg.FillLine(bg.Render(strings.Repeat("─", width), styles.FaintText), width),
	}
	content := strings.Join(header, "\n") + "\n" + m.detail.viewport.View()
	return m.renderBox("Entry "+e.TimeString(), content, m.width, m.height-2, true)
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := detailTags(m.detail.entry)
	toggle := func(t filter.Tag) (tea.Model, tea.Cmd) {
		action := m.detail.action
		m.session.UpdateFilter(func(f *filter.Filter) { f.Toggle(t, action) })
		m.refresh()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Confirm):
		m.screen = screenList
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Subsystem):
		return toggle(tags[0])
	case key.Matches(msg, m.keys.Category):
		return toggle(tags[1])
	case key.Matches(msg, m.keys.Sender):
		return toggle(tags[2])
	case key.Matches(msg, m.keys.Level):
		return toggle(tags[3])

	case key.Matches(msg, m.keys.SwitchAction):
		m.detail.action = m.detail.action.Opposite()
		return m, nil

	case key.Matches(msg, m.keys.ClearTags):
		e := m.detail.entry
		m.session.UpdateFilter(func(f *filter.Filter) { f.ClearEntry(e) })
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Export):
		return m, exportCmd(m.exportDir, m.detail.entry)

	case key.Matches(msg, m.keys.Down):
		m.detail.viewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.detail.viewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.detail.viewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.detail.viewport.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.detail.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.detail.viewport.GotoBottom()
	}
	return m, nil
}
