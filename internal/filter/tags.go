package filter

import (
	"cmp"
	"maps"
	"slices"

	"github.com/five82/logscope/internal/logentry"
)

// Facet is one of the four filterable dimensions of an entry.
type Facet int

const (
	FacetLevel Facet = iota
	FacetCategory
	FacetSubsystem
	FacetSender
)

// Facets lists every facet in display order.
var Facets = []Facet{FacetLevel, FacetSubsystem, FacetCategory, FacetSender}

// String returns the section title used by the UI.
func (f Facet) String() string {
	switch f {
	case FacetLevel:
		return "Log level"
	case FacetCategory:
		return "Category"
	case FacetSubsystem:
		return "Subsystem"
	case FacetSender:
		return "Library"
	default:
		return ""
	}
}

// Tag is a single facet value. Level tags carry the ordinal in Level and leave Name empty.
type Tag struct {
	Facet Facet
	Level logentry.Level
	Name  string
}

// LevelTag builds a tag for the level facet.
func LevelTag(l logentry.Level) Tag { return Tag{Facet: FacetLevel, Level: l} }

// CategoryTag builds a tag for the category facet.
func CategoryTag(name string) Tag { return Tag{Facet: FacetCategory, Name: name} }

// SubsystemTag builds a tag for the subsystem facet.
func SubsystemTag(name string) Tag { return Tag{Facet: FacetSubsystem, Name: name} }

// SenderTag builds a tag for the sender facet.
func SenderTag(name string) Tag { return Tag{Facet: FacetSender, Name: name} }

// TagOf returns the entry's value for facet f.
func TagOf(e logentry.Entry, f Facet) Tag {
	switch f {
	case FacetLevel:
		return LevelTag(e.Level)
	case FacetCategory:
		return CategoryTag(e.Category)
	case FacetSubsystem:
		return SubsystemTag(e.Subsystem)
	default:
		return SenderTag(e.Sender)
	}
}

// TagsOf returns the entry's four facet values in Facets order.
func TagsOf(e logentry.Entry) []Tag {
	tags := make([]Tag, 0, len(Facets))
	for _, f := range Facets {
		tags = append(tags, TagOf(e, f))
	}
	return tags
}

// Label renders the tag for display.
func (t Tag) Label() string {
	if t.Facet == FacetLevel {
		return t.Level.String()
	}
	return t.Name
}

// Set is an unordered collection of facet values.
type Set[T comparable] map[T]struct{}

// Has reports membership; a nil set has no members.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func sorted[T cmp.Ordered](s Set[T]) []T {
	return slices.Sorted(maps.Keys(s))
}

// TagSet holds one set of values per facet.
type TagSet struct {
	Levels     Set[logentry.Level]
	Categories Set[string]
	Subsystems Set[string]
	Senders    Set[string]
}

func newTagSet() TagSet {
	return TagSet{
		Levels:     make(Set[logentry.Level]),
		Categories: make(Set[string]),
		Subsystems: make(Set[string]),
		Senders:    make(Set[string]),
	}
}

// strings returns the string-valued set for f, or nil for the level facet.
func (ts *TagSet) strings(f Facet) Set[string] {
	switch f {
	case FacetCategory:
		return ts.Categories
	case FacetSubsystem:
		return ts.Subsystems
	case FacetSender:
		return ts.Senders
	default:
		return nil
	}
}

// Has reports whether the tag is in the set for its facet.
func (ts TagSet) Has(t Tag) bool {
	if t.Facet == FacetLevel {
		return ts.Levels.Has(t.Level)
	}
	return ts.strings(t.Facet).Has(t.Name)
}

// Empty reports whether the set for facet f has no values.
func (ts TagSet) Empty(f Facet) bool {
	if f == FacetLevel {
		return len(ts.Levels) == 0
	}
	return len(ts.strings(f)) == 0
}

func (ts *TagSet) add(t Tag) {
	if ts.Levels == nil {
		*ts = ts.clone()
	}
	if t.Facet == FacetLevel {
		ts.Levels[t.Level] = struct{}{}
		return
	}
	ts.strings(t.Facet)[t.Name] = struct{}{}
}

func (ts *TagSet) remove(t Tag) {
	if t.Facet == FacetLevel {
		delete(ts.Levels, t.Level)
		return
	}
	delete(ts.strings(t.Facet), t.Name)
}

// Tags returns the values of facet f sorted for display: levels by ordinal,
// strings lexically.
func (ts TagSet) Tags(f Facet) []Tag {
	if f == FacetLevel {
		levels := sorted(ts.Levels)
		out := make([]Tag, 0, len(levels))
		for _, l := range levels {
			out = append(out, LevelTag(l))
		}
		return out
	}
	names := sorted(ts.strings(f))
	out := make([]Tag, 0, len(names))
	for _, n := range names {
		out = append(out, Tag{Facet: f, Name: n})
	}
	return out
}

// Len returns the total number of values across all facets.
func (ts TagSet) Len() int {
	return len(ts.Levels) + len(ts.Categories) + len(ts.Subsystems) + len(ts.Senders)
}

func (ts TagSet) clone() TagSet {
	out := newTagSet()
	maps.Copy(out.Levels, ts.Levels)
	maps.Copy(out.Categories, ts.Categories)
	maps.Copy(out.Subsystems, ts.Subsystems)
	maps.Copy(out.Senders, ts.Senders)
	return out
}
