package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logscope/internal/filter"
	"github.com/five82/logscope/internal/logentry"
	"github.com/five82/logscope/internal/prefs"
	"github.com/five82/logscope/internal/session"
	"github.com/five82/logscope/internal/source"
)

type staticSource struct {
	entries []logentry.Entry
}

func (s *staticSource) Entries(_ context.Context, q source.Query) ([]logentry.Entry, error) {
	var out []logentry.Entry
	for _, e := range s.entries {
		if q.Since.IsZero() || !e.Time.Before(q.Since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func at(sec int) time.Time {
	return time.Date(2025, 10, 8, 21, 0, sec, 0, time.UTC)
}

func testEntries() []logentry.Entry {
	return []logentry.Entry{
		{Time: at(1), Level: logentry.LevelError, Category: "net", Subsystem: "a", Sender: "X", Message: "fail"},
		{Time: at(2), Level: logentry.LevelInfo, Category: "ui", Subsystem: "b", Sender: "Y", Message: "ok"},
	}
}

func newTestModel(t *testing.T) (Model, *session.Session, string) {
	t.Helper()
	sess := session.New(session.Options{Source: &staticSource{entries: testEntries()}})
	sess.LoadSync(context.Background())

	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{Session: sess, PrefsPath: prefsPath, ExportDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), sess, prefsPath
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestListShowsNewestFirst(t *testing.T) {
	m, _, _ := newTestModel(t)

	if len(m.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.rows))
	}
	if got := m.rows[0].entry.Message; got != "ok" {
		t.Fatalf("first row = %q, want %q", got, "ok")
	}
	if m.View() == "" {
		t.Fatal("View returned empty output")
	}
}

func TestSearchNarrowsList(t *testing.T) {
	m, sess, _ := newTestModel(t)

	m = press(t, m, "/", "F", "A")
	if !m.searchActive {
		t.Fatal("search field should be focused")
	}
	if got := sess.Snapshot().Search; got != "FA" {
		t.Fatalf("session search = %q, want %q", got, "FA")
	}
	if len(m.rows) != 1 || m.rows[0].entry.Message != "fail" {
		t.Fatalf("rows = %+v, want only the failing entry", m.rows)
	}

	m = press(t, m, "enter")
	if m.searchActive {
		t.Fatal("enter should close the search field")
	}
	if len(m.rows) != 1 {
		t.Fatalf("rows after enter = %d, want 1", len(m.rows))
	}

	m = press(t, m, "esc")
	if len(m.rows) != 2 {
		t.Fatalf("rows after esc = %d, want 2", len(m.rows))
	}
}

func TestToggleOrderSavesPrefs(t *testing.T) {
	m, _, prefsPath := newTestModel(t)

	m = press(t, m, "o")
	if !m.reversed {
		t.Fatal("order should be reversed")
	}
	if got := m.rows[0].entry.Message; got != "fail" {
		t.Fatalf("first row = %q, want %q", got, "fail")
	}

	p, err := prefs.Load(prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if !p.Reversed {
		t.Fatal("saved prefs should record the reversed order")
	}
}

func TestClearEmptiesListAndKeepsFilter(t *testing.T) {
	m, sess, _ := newTestModel(t)
	sess.UpdateFilter(func(f *filter.Filter) { f.Exclude(filter.CategoryTag("ui")) })

	m = press(t, m, "x")
	if len(m.rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(m.rows))
	}
	if !sess.Filter().Active() {
		t.Fatal("clear should keep the filter")
	}
}

func TestDetailTogglesTags(t *testing.T) {
	m, sess, _ := newTestModel(t)

	m = press(t, m, "enter")
	if m.screen != screenDetail {
		t.Fatalf("screen = %v, want detail", m.screen)
	}
	if got := m.detail.entry.Subsystem; got != "b" {
		t.Fatalf("detail subsystem = %q, want %q", got, "b")
	}

	m = press(t, m, "1")
	if got := sess.Filter().StateOf(filter.SubsystemTag("b")); got != filter.Included {
		t.Fatalf("subsystem state = %v, want Included", got)
	}
	if len(m.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(m.rows))
	}

	m = press(t, m, "a", "2")
	if got := sess.Filter().StateOf(filter.CategoryTag("ui")); got != filter.Excluded {
		t.Fatalf("category state = %v, want Excluded", got)
	}

	m = press(t, m, "c")
	if sess.Filter().Active() {
		t.Fatal("clear should remove every tag of the entry")
	}

	m = press(t, m, "esc")
	if m.screen != screenList {
		t.Fatalf("screen = %v, want list", m.screen)
	}
}

func TestFilterSheetToggleAndClearAll(t *testing.T) {
	m, sess, _ := newTestModel(t)

	m = press(t, m, "f")
	if m.screen != screenFilters {
		t.Fatalf("screen = %v, want filter sheet", m.screen)
	}
	if _, ok := m.focusedTag(); !ok {
		t.Fatal("sheet should focus the first tag")
	}

	m = press(t, m, "space")
	if !sess.Filter().Active() {
		t.Fatal("space should toggle the focused tag")
	}

	m = press(t, m, "c")
	if sess.Filter().Active() {
		t.Fatal("c should clear every tag")
	}

	m = press(t, m, "esc")
	if m.screen != screenList {
		t.Fatalf("screen = %v, want list", m.screen)
	}
}

func TestFilterSheetKeepsValuesFilteredOut(t *testing.T) {
	m, sess, _ := newTestModel(t)
	sess.UpdateFilter(func(f *filter.Filter) { f.Include(filter.SubsystemTag("a")) })

	m = press(t, m, "f")
	var subsystems []filter.Tag
	for _, sec := range m.sheetSections() {
		if sec.facet == filter.FacetSubsystem {
			subsystems = sec.tags
		}
	}
	if len(subsystems) != 2 {
		t.Fatalf("subsystem tags = %v, want both a and b", subsystems)
	}
}

func TestSessionChangedRefreshes(t *testing.T) {
	m, sess, _ := newTestModel(t)
	sess.Clear()

	next, _ := m.Update(sessionChangedMsg{})
	m = next.(Model)
	if len(m.rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(m.rows))
	}
}

func TestExportedMsgSetsStatus(t *testing.T) {
	m, _, _ := newTestModel(t)

	next, _ := m.Update(exportedMsg{path: "/tmp/x.txt"})
	m = next.(Model)
	if m.status != "exported to /tmp/x.txt" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestSelectionFollowsEntryAcrossLoads(t *testing.T) {
	src := &staticSource{entries: testEntries()}
	sess := session.New(session.Options{Source: src})
	sess.LoadSync(context.Background())

	m := New(Options{Session: sess, PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = press(t, next.(Model), "j")
	if e, _ := m.selected(); e.Message != "fail" {
		t.Fatalf("selected = %q, want %q", e.Message, "fail")
	}

	src.entries = append(src.entries, logentry.Entry{Time: at(3), Subsystem: "c", Message: "newer"})
	sess.LoadSync(context.Background())
	next, _ = m.Update(sessionChangedMsg{})
	m = next.(Model)

	if e, _ := m.selected(); e.Message != "fail" {
		t.Fatalf("selected after load = %q, want %q", e.Message, "fail")
	}
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}

	m = press(t, m, "o")
	if e, _ := m.selected(); e.Message != "fail" {
		t.Fatalf("selected after order toggle = %q, want %q", e.Message, "fail")
	}
	if m.cursor != 0 {
		t.Fatalf("cursor after order toggle = %d, want 0", m.cursor)
	}
}
