package session

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/five82/logscope/internal/filter"
	"github.com/five82/logscope/internal/logentry"
	"github.com/five82/logscope/internal/source"
)

// Options configure a Session.
type Options struct {
	Source    source.Source
	Predicate source.Predicate  // pushed down to the source
	Accept    source.AcceptFunc // applied in-process; nil keeps everything
	Registry  *filter.Registry  // nil creates a private registry
}

// View is an immutable snapshot of the session and its derived values.
type View struct {
	Entries     []logentry.Entry
	Filtered    []logentry.Entry
	Searched    []logentry.Entry
	Stats       filter.Statistics
	Filter      filter.Filter
	Search      string
	Loading     bool
	HighWater   time.Time
	LastUpdated time.Time
	// Err is the error of the most recent fetch, nil after a successful one.
	Err error
}

// Session accumulates entries fetched from a source and keeps the filtered
// and searched views current. It is safe for concurrent use.
type Session struct {
	src       source.Source
	predicate source.Predicate
	accept    source.AcceptFunc
	registry  *filter.Registry

	mu          sync.RWMutex
	entries     []logentry.Entry
	highWater   time.Time
	filter      filter.Filter
	search      string
	inflight    int
	generation  uint64
	lastUpdated time.Time
	lastErr     error

	filtered []logentry.Entry
	stats    filter.Statistics
	searched []logentry.Entry

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(View)
}

// New builds an empty session.
func New(opts Options) *Session {
	reg := opts.Registry
	if reg == nil {
		reg = filter.NewRegistry()
	}
	s := &Session{
		src:       opts.Source,
		predicate: opts.Predicate,
		accept:    opts.Accept,
		registry:  reg,
		filter:    filter.New(),
		subs:      make(map[int]func(View)),
	}
	s.refilter()
	return s
}

// Registry returns the seen-values registry the session feeds.
func (s *Session) Registry() *filter.Registry {
	return s.registry
}

// fetch is one pending load: the generation it belongs to and its lower bound.
type fetch struct {
	generation uint64
	since      time.Time
}

// result is what a fetch produced.
type result struct {
	fetch
	entries []logentry.Entry
	err     error
}

// Load starts a background fetch of entries newer than the high-water mark
// and returns immediately. Overlapping calls are allowed.
func (s *Session) Load(ctx context.Context) {
	f := s.begin()
	s.notify()
	go func() {
		s.commit(s.run(ctx, f))
	}()
}

// LoadSync fetches and commits on the calling goroutine and returns the
// fetch error, if any.
func (s *Session) LoadSync(ctx context.Context) error {
	f := s.begin()
	r := s.run(ctx, f)
	s.commit(r)
	return r.err
}

func (s *Session) begin() fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	return fetch{generation: s.generation, since: s.highWater}
}

func (s *Session) run(ctx context.Context, f fetch) result {
	if s.src == nil {
		return result{fetch: f}
	}
	entries, err := source.Fetch(ctx, s.src, source.Query{Since: f.since, Predicate: s.predicate}, s.accept)
	return result{fetch: f, entries: entries, err: err}
}

// commit applies a fetch result as one atomic step. Results from a fetch that
// started before the last Clear are dropped. It reports whether entries were appended.
func (s *Session) commit(r result) bool {
	appended := s.apply(r)
	s.notify()
	return appended
}

func (s *Session) apply(r result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight > 0 {
		s.inflight--
	}
	s.lastUpdated = time.Now()
	s.lastErr = r.err
	if r.err != nil {
		log.Printf("load entries failed: %v", r.err)
		return false
	}
	if r.generation != s.generation {
		// Entries fetched before a Clear stay cleared: move the mark past
		// them without appending.
		for _, e := range r.entries {
			if e.Time.After(s.highWater) {
				s.highWater = e.Time
			}
		}
		return false
	}

	fresh := make([]logentry.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if s.highWater.IsZero() || e.Time.After(s.highWater) {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return false
	}

	s.entries = append(s.entries, fresh...)
	s.registry.Observe(fresh)
	if last := fresh[len(fresh)-1].Time; last.After(s.highWater) {
		s.highWater = last
	}
	s.refilter()
	return true
}

// Clear empties the entry list. Filter, search, registry and the high-water
// mark are kept, so the next Load continues from the last entry seen.
// Fetches already in flight are discarded when they complete, but still
// advance the high-water mark so their entries are not fetched again.
func (s *Session) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.generation++
	s.refilter()
	s.mu.Unlock()
	s.notify()
}

// Filter returns a copy of the current filter.
func (s *Session) Filter() filter.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Clone()
}

// SetFilter replaces the filter.
func (s *Session) SetFilter(f filter.Filter) {
	s.mu.Lock()
	s.filter = f.Clone()
	s.refilter()
	s.mu.Unlock()
	s.notify()
}

// UpdateFilter mutates the filter in place and recomputes the derived views.
func (s *Session) UpdateFilter(fn func(*filter.Filter)) {
	s.mu.Lock()
	fn(&s.filter)
	s.refilter()
	s.mu.Unlock()
	s.notify()
}

// SetSearch replaces the search text. An empty string matches everything.
func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	if text == s.search {
		s.mu.Unlock()
		return
	}
	s.search = text
	s.researched()
	s.mu.Unlock()
	s.notify()
}

// Loading reports whether any fetch is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Snapshot returns the current view. Slices are clipped so appends by the
// caller never alias session storage.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		Entries:     slices.Clip(s.entries),
		Filtered:    slices.Clip(s.filtered),
		Searched:    slices.Clip(s.searched),
		Stats:       s.stats,
		Filter:      s.filter.Clone(),
		Search:      s.search,
		Loading:     s.inflight > 0,
		HighWater:   s.highWater,
		LastUpdated: s.lastUpdated,
		Err:         s.lastErr,
	}
}

// Subscribe registers fn to receive a View after every change. The returned
// function removes the subscription. fn runs on the goroutine that made the
// change and must not block.
func (s *Session) Subscribe(fn func(View)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) notify() {
	s.subMu.Lock()
	fns := make([]func(View), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	if len(fns) == 0 {
		return
	}
	view := s.Snapshot()
	for _, fn := range fns {
		fn(view)
	}
}

// refilter recomputes filtered, stats and searched. Caller holds mu.
func (s *Session) refilter() {
	s.filtered, s.stats = s.filter.Apply(s.entries)
	s.researched()
}

// researched recomputes searched from filtered. Caller holds mu.
func (s *Session) researched() {
	s.searched = Search(s.filtered, s.search)
}

// Search narrows entries to those whose message contains text, ignoring case.
// Empty text returns entries unchanged.
func Search(entries []logentry.Entry, text string) []logentry.Entry {
	if text == "" {
		return entries
	}
	fold := cases.Fold()
	needle := fold.String(text)
	out := make([]logentry.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Message), needle) {
			out = append(out, e)
		}
	}
	return out
}
