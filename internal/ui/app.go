package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logscope/internal/filter"
	"github.com/five82/logscope/internal/logentry"
	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/session"
)

// screen is the active full-screen view.
type screen int

const (
	screenList screen = iota
	screenDetail
	screenFilters
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Prefs     prefs.Prefs
	PrefsPath string
	ExportDir string
	// Source describes where entries come from, shown in the header.
	Source string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *session.Session
	prefsPath string
	exportDir string
	source    string
	keys      keyMap

	// UI state
	theme    Theme
	reversed bool
	screen   screen
	width    int
	height   int
	ready    bool
	showHelp bool
	status   string

	// Data state
	view session.View

	// List state
	listViewport viewport.Model
	cursor       int
	rows         []row

	// Detail state
	detail detailState

	// Filter sheet state
	sheet sheetState

	// Search input
	searchActive bool
	searchInput  textinput.Model

	spinner spinner.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sess := opts.Session
	if sess == nil {
		sess = session.New(session.Options{})
	}

	ti := textinput.New()
	ti.Placeholder = "Search messages..."
	ti.CharLimit = 200
	ti.Prompt = "/"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		session:     sess,
		prefsPath:   prefsPath,
		exportDir:   opts.ExportDir,
		source:      opts.Source,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		reversed:    opts.Prefs.Reversed,
		detail:      detailState{action: filter.ActionInclude},
		sheet:       sheetState{action: filter.ActionInclude},
		searchInput: ti,
		spinner:     sp,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refresh()
		return m, nil

	case sessionChangedMsg:
		m.refresh()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.view.Loading && len(m.rows) == 0 {
			m.updateListViewport()
		}
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.screen {
	case screenDetail:
		b.WriteString(m.renderDetail())
	case screenFilters:
		b.WriteString(m.renderFilterSheet())
	default:
		b.WriteString(m.renderList())
	}
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searchActive {
		return m.handleSearchInput(msg)
	}

	m.status = ""

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "h", "?":
		m.showHelp = true
		return m, nil
	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateListViewport()
		return m, nil
	}

	switch m.screen {
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenFilters:
		return m.handleFilterSheetKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// reload starts a background fetch. The commit arrives as sessionChangedMsg
// through the subscription installed by Run.
func (m *Model) reload() tea.Cmd {
	m.session.Load(m.ctx)
	m.refresh()
	return m.spinner.Tick
}

// refresh pulls a fresh view from the session and re-renders the list.
// The cursor stays on the selected entry while it is still listed.
func (m *Model) refresh() {
	prev, hadPrev := m.selected()
	m.view = m.session.Snapshot()
	m.rows = buildRows(m.view.Searched, m.reversed)
	if hadPrev {
		if i := rowIndex(m.rows, prev); i >= 0 {
			m.cursor = i
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.updateListViewport()
	if m.screen == screenDetail {
		m.updateDetailViewport()
	}
}

func (m *Model) resize() {
	contentHeight := max(m.height-4, 1) // header, command bar, box borders
	contentWidth := max(m.width-4, 1)
	if m.listViewport.Width == 0 {
		m.listViewport = viewport.New(contentWidth, contentHeight)
	}
	m.listViewport.Width = contentWidth
	m.listViewport.Height = contentHeight
	m.searchInput.Width = max(m.width-20, 10)
	m.resizeDetail()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Reversed: m.reversed}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.status = fmt.Sprintf("save prefs: %v", err)
	}
}

// selected returns the entry under the cursor.
func (m Model) selected() (logentry.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return logentry.Entry{}, false
	}
	return m.rows[m.cursor].entry, true
}

// Messages

type sessionChangedMsg struct{}

type exportedMsg struct {
	path string
	err  error
}

// Run starts the Bubble Tea program. Session changes made on other goroutines
// (background loads, follow mode) are forwarded to the program as redraws.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	changes := make(chan struct{}, 1)
	unsubscribe := m.session.Subscribe(func(session.View) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-changes:
				p.Send(sessionChangedMsg{})
			}
		}
	}()

	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
