package filter

import (
	"github.com/five82/logscope/internal/logentry"
)

// State is the selection state of a single tag.
type State int

const (
	Unset State = iota
	Included
	Excluded
)

// Action is what activating an unset tag does.
type Action int

const (
	ActionInclude Action = iota
	ActionExclude
)

// Opposite returns the other action.
func (a Action) Opposite() Action {
	if a == ActionInclude {
		return ActionExclude
	}
	return ActionInclude
}

// String returns the UI label for the action.
func (a Action) String() string {
	if a == ActionExclude {
		return "Hide"
	}
	return "Show"
}

// Filter holds the user's inclusion and exclusion selections.
// A value is never present in both Equals and NotEquals for the same facet.
// The zero Filter is empty and ready to use.
type Filter struct {
	Equals    TagSet
	NotEquals TagSet
}

// New returns an empty filter.
func New() Filter {
	return Filter{Equals: newTagSet(), NotEquals: newTagSet()}
}

// Clone returns a deep copy so callers can mutate without affecting shared state.
func (f Filter) Clone() Filter {
	return Filter{Equals: f.Equals.clone(), NotEquals: f.NotEquals.clone()}
}

// Include restricts the tag's facet to the tag (and any other included values).
func (f *Filter) Include(t Tag) {
	f.Equals.add(t)
	f.NotEquals.remove(t)
}

// Exclude hides entries carrying the tag.
func (f *Filter) Exclude(t Tag) {
	f.NotEquals.add(t)
	f.Equals.remove(t)
}

// Clear removes the tag from both sets.
func (f *Filter) Clear(t Tag) {
	f.Equals.remove(t)
	f.NotEquals.remove(t)
}

// ClearAll empties every facet of both sets.
func (f *Filter) ClearAll() {
	*f = New()
}

// ClearEntry clears all four facet values of e.
func (f *Filter) ClearEntry(e logentry.Entry) {
	for _, t := range TagsOf(e) {
		f.Clear(t)
	}
}

// StateOf reports whether the tag is included, excluded or unset.
func (f Filter) StateOf(t Tag) State {
	switch {
	case f.Equals.Has(t):
		return Included
	case f.NotEquals.Has(t):
		return Excluded
	default:
		return Unset
	}
}

// Toggle clears a selected tag, or applies action to an unset one.
func (f *Filter) Toggle(t Tag, action Action) {
	if f.StateOf(t) != Unset {
		f.Clear(t)
		return
	}
	if action == ActionExclude {
		f.Exclude(t)
		return
	}
	f.Include(t)
}

// Active reports whether any facet constrains the result.
func (f Filter) Active() bool {
	return f.Equals.Len() > 0 || f.NotEquals.Len() > 0
}

// Statistics counts facet values over the entries that passed one Apply call.
type Statistics struct {
	Levels     map[logentry.Level]int
	Categories map[string]int
	Subsystems map[string]int
	Senders    map[string]int
}

func newStatistics() Statistics {
	return Statistics{
		Levels:     make(map[logentry.Level]int),
		Categories: make(map[string]int),
		Subsystems: make(map[string]int),
		Senders:    make(map[string]int),
	}
}

// Count returns the number of passing entries carrying the tag.
func (s Statistics) Count(t Tag) int {
	switch t.Facet {
	case FacetLevel:
		return s.Levels[t.Level]
	case FacetCategory:
		return s.Categories[t.Name]
	case FacetSubsystem:
		return s.Subsystems[t.Name]
	default:
		return s.Senders[t.Name]
	}
}

func (s Statistics) record(e logentry.Entry) {
	s.Levels[e.Level]++
	s.Categories[e.Category]++
	s.Subsystems[e.Subsystem]++
	s.Senders[e.Sender]++
}

type predicate func(logentry.Entry) bool

// facetPredicate builds the check for one facet: a non-empty inclusion set wins,
// otherwise a non-empty exclusion set applies, otherwise anything passes.
func (f Filter) facetPredicate(facet Facet) predicate {
	switch {
	case !f.Equals.Empty(facet):
		return func(e logentry.Entry) bool { return f.Equals.Has(TagOf(e, facet)) }
	case !f.NotEquals.Empty(facet):
		return func(e logentry.Entry) bool { return !f.NotEquals.Has(TagOf(e, facet)) }
	default:
		return nil
	}
}

// Apply returns the entries passing every facet, in input order, and the
// statistics of the passing entries. Statistics are computed fresh on each call.
func (f Filter) Apply(entries []logentry.Entry) ([]logentry.Entry, Statistics) {
	preds := make([]predicate, 0, len(Facets))
	for _, facet := range Facets {
		if p := f.facetPredicate(facet); p != nil {
			preds = append(preds, p)
		}
	}

	stats := newStatistics()
	out := make([]logentry.Entry, 0, len(entries))
outer:
	for _, e := range entries {
		for _, p := range preds {
			if !p(e) {
				continue outer
			}
		}
		out = append(out, e)
		stats.record(e)
	}
	return out, stats
}
