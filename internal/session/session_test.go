package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/logscope/internal/filter"
	"github.com/five82/logscope/internal/logentry"
	"github.com/five82/logscope/internal/source"
)

// fakeSource returns every stored entry at or after the query lower bound,
// the same inclusive contract real stores honour.
type fakeSource struct {
	mu      sync.Mutex
	entries []logentry.Entry
	err     error
	queries []source.Query
}

func (f *fakeSource) Entries(_ context.Context, q source.Query) ([]logentry.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	var out []logentry.Entry
	for _, e := range f.entries {
		if q.Since.IsZero() || !e.Time.Before(q.Since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) add(entries ...logentry.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entries...)
}

func ts(sec int) time.Time {
	return time.Date(2025, 10, 8, 21, 0, sec, 0, time.UTC)
}

func scenarioEntries() []logentry.Entry {
	return []logentry.Entry{
		{Time: ts(1), Level: logentry.LevelError, Category: "net", Subsystem: "a", Sender: "X", Message: "fail"},
		{Time: ts(2), Level: logentry.LevelInfo, Category: "ui", Subsystem: "b", Sender: "Y", Message: "ok"},
	}
}

func TestSession_LoadTwiceDoesNotDuplicate(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	s := New(Options{Source: src})
	ctx := context.Background()

	s.LoadSync(ctx)
	s.LoadSync(ctx)

	view := s.Snapshot()
	if len(view.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(view.Entries))
	}
	if !view.HighWater.Equal(ts(2)) {
		t.Fatalf("HighWater = %v, want %v", view.HighWater, ts(2))
	}
	if len(src.queries) != 2 || !src.queries[0].Since.IsZero() || !src.queries[1].Since.Equal(ts(2)) {
		t.Fatalf("queries = %#v, want zero lower bound then high-water mark", src.queries)
	}
	if view.Loading {
		t.Fatalf("Loading = true after loads completed")
	}
}

func TestSession_LoadAppendsNewEntriesInOrder(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	s := New(Options{Source: src})
	ctx := context.Background()
	s.LoadSync(ctx)

	src.add(
		logentry.Entry{Time: ts(3), Message: "third"},
		logentry.Entry{Time: ts(4), Message: "fourth"},
	)
	s.LoadSync(ctx)

	view := s.Snapshot()
	var msgs []string
	for _, e := range view.Entries {
		msgs = append(msgs, e.Message)
	}
	want := []string{"fail", "ok", "third", "fourth"}
	if len(msgs) != len(want) {
		t.Fatalf("messages = %v, want %v", msgs, want)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Fatalf("messages = %v, want %v", msgs, want)
		}
	}
}

func TestSession_AcceptAndPredicateReachSource(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	pred := source.SubsystemIn([]string{"a"}, true)
	s := New(Options{
		Source:    src,
		Predicate: pred,
		Accept:    func(e logentry.Entry) bool { return e.Sender == "X" },
	})
	s.LoadSync(context.Background())

	if got := src.queries[0].Predicate; !got.Match("a") || got.Match("b") || !got.Match("") {
		t.Fatalf("predicate = %#v, want subsystem a or unset", got)
	}
	view := s.Snapshot()
	if len(view.Entries) != 1 || view.Entries[0].Sender != "X" {
		t.Fatalf("entries = %#v, want only sender X", view.Entries)
	}
}

func TestSession_FilterScenario(t *testing.T) {
	s := New(Options{Source: &fakeSource{entries: scenarioEntries()}})
	s.LoadSync(context.Background())

	s.UpdateFilter(func(f *filter.Filter) { f.Include(filter.LevelTag(logentry.LevelError)) })
	view := s.Snapshot()
	if len(view.Filtered) != 1 || view.Filtered[0].Message != "fail" {
		t.Fatalf("filtered = %#v, want entry 1 only", view.Filtered)
	}
	if view.Stats.Levels[logentry.LevelError] != 1 || len(view.Stats.Levels) != 1 {
		t.Fatalf("stats.levels = %v, want {error:1}", view.Stats.Levels)
	}
	if view.Stats.Categories["net"] != 1 || len(view.Stats.Categories) != 1 {
		t.Fatalf("stats.categories = %v, want {net:1}", view.Stats.Categories)
	}

	s.SetSearch("fail")
	if got := s.Snapshot().Searched; len(got) != 1 || got[0].Message != "fail" {
		t.Fatalf("searched(fail) = %#v, want entry 1", got)
	}
	s.SetSearch("ok")
	if got := s.Snapshot().Searched; len(got) != 0 {
		t.Fatalf("searched(ok) = %#v, want none", got)
	}
}

func TestSession_SearchIgnoresCase(t *testing.T) {
	s := New(Options{Source: &fakeSource{entries: []logentry.Entry{
		{Time: ts(1), Message: "Connection FAILED"},
		{Time: ts(2), Message: "Straße gesperrt"},
		{Time: ts(3), Message: "all good"},
	}}})
	s.LoadSync(context.Background())

	tests := []struct {
		search string
		want   int
	}{
		{"", 3},
		{"failed", 1},
		{"STRASSE", 1},
		{"o", 2},
		{"missing", 0},
		{"   ", 0},
		{" ", 3},
	}
	for _, tt := range tests {
		s.SetSearch(tt.search)
		if got := len(s.Snapshot().Searched); got != tt.want {
			t.Fatalf("search %q matched %d, want %d", tt.search, got, tt.want)
		}
	}
}

func TestSession_ClearKeepsFilterSearchRegistryAndHighWater(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	reg := filter.NewRegistry()
	s := New(Options{Source: src, Registry: reg})
	ctx := context.Background()
	s.LoadSync(ctx)
	s.UpdateFilter(func(f *filter.Filter) { f.Exclude(filter.SenderTag("Y")) })
	s.SetSearch("fa")

	s.Clear()
	view := s.Snapshot()
	if len(view.Entries) != 0 || len(view.Filtered) != 0 || len(view.Searched) != 0 {
		t.Fatalf("Clear left entries: %#v", view)
	}
	if view.Search != "fa" {
		t.Fatalf("Search = %q, want fa", view.Search)
	}
	if view.Filter.StateOf(filter.SenderTag("Y")) != filter.Excluded {
		t.Fatalf("filter lost exclusion after Clear")
	}
	if len(reg.Tags(filter.FacetSender)) != 2 {
		t.Fatalf("registry senders = %v, want 2 values", reg.Tags(filter.FacetSender))
	}
	if !view.HighWater.Equal(ts(2)) {
		t.Fatalf("HighWater = %v, want %v", view.HighWater, ts(2))
	}

	// Only entries after the high-water mark come back.
	s.LoadSync(ctx)
	if got := s.Snapshot().Entries; len(got) != 0 {
		t.Fatalf("entries after reload = %#v, want none", got)
	}
	src.add(logentry.Entry{Time: ts(5), Sender: "X", Message: "new fail"})
	s.LoadSync(ctx)
	if got := s.Snapshot().Searched; len(got) != 1 || got[0].Message != "new fail" {
		t.Fatalf("searched after reload = %#v, want new fail", got)
	}
}

func TestSession_StaleFetchAfterClearIsDiscarded(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	s := New(Options{Source: src})
	ctx := context.Background()

	f := s.begin()
	if !s.Loading() {
		t.Fatalf("Loading = false with a fetch in flight")
	}
	r := s.run(ctx, f)
	s.Clear()
	if s.commit(r) {
		t.Fatalf("commit of stale fetch reported appended entries")
	}
	view := s.Snapshot()
	if len(view.Entries) != 0 {
		t.Fatalf("entries = %#v, want none", view.Entries)
	}
	if view.Loading {
		t.Fatalf("Loading = true after stale fetch completed")
	}
	if !view.HighWater.Equal(ts(2)) {
		t.Fatalf("HighWater = %v, want %v", view.HighWater, ts(2))
	}

	s.LoadSync(ctx)
	if got := s.Snapshot().Entries; len(got) != 0 {
		t.Fatalf("entries after reload = %#v, want none fetched before Clear", got)
	}

	src.add(logentry.Entry{Time: ts(3), Level: logentry.LevelInfo, Message: "after clear"})
	s.LoadSync(ctx)
	got := s.Snapshot().Entries
	if len(got) != 1 || got[0].Message != "after clear" {
		t.Fatalf("entries = %#v, want only the entry logged after Clear", got)
	}
}

func TestSession_OverlappingLoads(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	s := New(Options{Source: src})
	ctx := context.Background()

	first := s.begin()
	second := s.begin()
	r1 := s.run(ctx, first)
	r2 := s.run(ctx, second)

	if !s.commit(r2) {
		t.Fatalf("first commit appended nothing")
	}
	if !s.Loading() {
		t.Fatalf("Loading = false while a fetch is still in flight")
	}
	if s.commit(r1) {
		t.Fatalf("second commit appended duplicates")
	}
	view := s.Snapshot()
	if len(view.Entries) != 2 || view.Loading {
		t.Fatalf("entries = %d loading = %v, want 2 false", len(view.Entries), view.Loading)
	}
}

func TestSession_FetchErrorIsSwallowed(t *testing.T) {
	src := &fakeSource{entries: scenarioEntries()}
	s := New(Options{Source: src})
	ctx := context.Background()
	s.LoadSync(ctx)

	src.err = errors.New("store unavailable")
	if err := s.LoadSync(ctx); !errors.Is(err, src.err) {
		t.Fatalf("LoadSync error = %v, want %v", err, src.err)
	}

	view := s.Snapshot()
	if len(view.Entries) != 2 {
		t.Fatalf("entries = %d, want previous 2 kept", len(view.Entries))
	}
	if view.Err == nil {
		t.Fatalf("view.Err = nil after failed fetch")
	}

	src.err = nil
	if err := s.LoadSync(ctx); err != nil {
		t.Fatalf("LoadSync: %v", err)
	}
	if err := s.Snapshot().Err; err != nil {
		t.Fatalf("view.Err = %v after successful fetch, want nil", err)
	}
	if view.Loading {
		t.Fatalf("Loading = true after failed fetch")
	}
	if view.LastUpdated.IsZero() {
		t.Fatalf("LastUpdated not set")
	}
}

func TestSession_LoadRunsInBackgroundAndNotifies(t *testing.T) {
	s := New(Options{Source: &fakeSource{entries: scenarioEntries()}})

	views := make(chan View, 8)
	unsubscribe := s.Subscribe(func(v View) { views <- v })
	defer unsubscribe()

	s.Load(context.Background())

	deadline := time.After(5 * time.Second)
	for {
		select {
		case v := <-views:
			if !v.Loading && len(v.Entries) == 2 {
				return
			}
		case <-deadline:
			t.Fatalf("no view with loaded entries received")
		}
	}
}

func TestSession_UnsubscribeStopsNotifications(t *testing.T) {
	s := New(Options{})
	calls := 0
	unsubscribe := s.Subscribe(func(View) { calls++ })
	s.SetSearch("a")
	unsubscribe()
	s.SetSearch("b")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestSession_SnapshotIsIsolated(t *testing.T) {
	s := New(Options{Source: &fakeSource{entries: scenarioEntries()}})
	s.LoadSync(context.Background())

	view := s.Snapshot()
	_ = append(view.Entries, logentry.Entry{Message: "caller"})
	view.Filter.Include(filter.SenderTag("X"))

	again := s.Snapshot()
	if len(again.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(again.Entries))
	}
	if again.Filter.Active() {
		t.Fatalf("mutating a snapshot filter changed the session")
	}
}

func TestSession_NilSourceLoadIsNoop(t *testing.T) {
	s := New(Options{})
	s.LoadSync(context.Background())
	if view := s.Snapshot(); len(view.Entries) != 0 || view.Loading {
		t.Fatalf("view = %#v, want empty idle session", view)
	}
}
