package source

import (
	"context"
	"slices"
	"time"

	"github.com/five82/logscope/internal/logentry"
)

// DefaultWindow bounds how many entries a source returns per query when the
// caller does not configure one.
const DefaultWindow = 5000

// Source produces log entries on demand.
type Source interface {
	// Entries returns entries at or after q.Since that satisfy q.Predicate,
	// oldest first. A zero Since means the start of the retained window.
	Entries(ctx context.Context, q Query) ([]logentry.Entry, error)
}

// Ensure the concrete sources implement Source at compile time.
var (
	_ Source = (*FileSource)(nil)
	_ Source = (*SQLiteSource)(nil)
	_ Source = (*HTTPSource)(nil)
)

// Query configures one fetch.
type Query struct {
	Since     time.Time
	Predicate Predicate
}

// Predicate is the coarse filter pushed down to the source: the subsystem must
// be in the allow-list, or unset when OrUnset is true. The zero Predicate
// matches everything.
type Predicate struct {
	Subsystems []string
	OrUnset    bool
}

// SubsystemIn builds a predicate over an allow-list of subsystems.
func SubsystemIn(subsystems []string, orUnset bool) Predicate {
	return Predicate{Subsystems: slices.Clone(subsystems), OrUnset: orUnset}
}

// IsZero reports whether the predicate imposes no constraint.
func (p Predicate) IsZero() bool {
	return len(p.Subsystems) == 0 && !p.OrUnset
}

// Match evaluates the predicate against a subsystem value.
func (p Predicate) Match(subsystem string) bool {
	if p.IsZero() {
		return true
	}
	if subsystem == "" {
		return p.OrUnset
	}
	return slices.Contains(p.Subsystems, subsystem)
}

// AcceptFunc is the secondary in-process filter for conditions the source-side
// predicate cannot express.
type AcceptFunc func(logentry.Entry) bool

// DefaultAccept keeps entries from the application's main target (no category,
// sent by mainSender) and entries from an allowed subsystem.
func DefaultAccept(subsystems []string, mainSender string) AcceptFunc {
	allowed := slices.Clone(subsystems)
	return func(e logentry.Entry) bool {
		if e.Category == "" && e.Sender == mainSender {
			return true
		}
		return slices.Contains(allowed, e.Subsystem)
	}
}

// Fetch queries src and applies accept in-process. A nil accept keeps everything.
func Fetch(ctx context.Context, src Source, q Query, accept AcceptFunc) ([]logentry.Entry, error) {
	entries, err := src.Entries(ctx, q)
	if err != nil {
		return nil, err
	}
	if accept == nil {
		return entries, nil
	}
	return slices.DeleteFunc(entries, func(e logentry.Entry) bool { return !accept(e) }), nil
}

// keepRecent trims entries to the newest window items.
func keepRecent(entries []logentry.Entry, window int) []logentry.Entry {
	if window <= 0 {
		window = DefaultWindow
	}
	if overflow := len(entries) - window; overflow > 0 {
		return append([]logentry.Entry(nil), entries[overflow:]...)
	}
	return entries
}
