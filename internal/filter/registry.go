package filter

import (
	"sync"

	"github.com/five82/logscope/internal/logentry"
)

// Registry accumulates every distinct facet value observed by the process.
// It only grows; clearing a session does not reset it. It is safe for
// concurrent use.
type Registry struct {
	mu   sync.RWMutex
	seen TagSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{seen: newTagSet()}
}

// Observe records the facet values of entries.
func (r *Registry) Observe(entries []logentry.Entry) {
	if len(entries) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		for _, t := range TagsOf(e) {
			r.seen.add(t)
		}
	}
}

// Tags returns the known values of facet f, sorted for display.
func (r *Registry) Tags(f Facet) []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seen.Tags(f)
}

// Snapshot returns a copy of every known value.
func (r *Registry) Snapshot() TagSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seen.clone()
}
