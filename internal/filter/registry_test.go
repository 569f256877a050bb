package filter

import (
	"sync"
	"testing"

	"github.com/five82/logscope/internal/logentry"
)

func TestRegistry_ObserveSortsAndGrows(t *testing.T) {
	r := NewRegistry()
	r.Observe([]logentry.Entry{
		{Level: logentry.LevelFault, Category: "ui", Subsystem: "b", Sender: "Y"},
		{Level: logentry.LevelDebug, Category: "net", Subsystem: "a", Sender: "X"},
	})
	r.Observe([]logentry.Entry{
		{Level: logentry.LevelDebug, Category: "", Subsystem: "a", Sender: "X"},
	})

	levels := r.Tags(FacetLevel)
	if len(levels) != 2 || levels[0].Level != logentry.LevelDebug || levels[1].Level != logentry.LevelFault {
		t.Fatalf("levels = %v, want [debug fault]", levels)
	}
	cats := r.Tags(FacetCategory)
	if len(cats) != 3 || cats[0].Name != "" || cats[1].Name != "net" || cats[2].Name != "ui" {
		t.Fatalf("categories = %v, want [\"\" net ui]", cats)
	}
	if got := r.Snapshot().Len(); got != 2+3+2+2 {
		t.Fatalf("Snapshot().Len() = %d, want 9", got)
	}
}

func TestRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Observe([]logentry.Entry{{Sender: "X"}})
	snap := r.Snapshot()
	snap.Senders["Z"] = struct{}{}
	if len(r.Tags(FacetSender)) != 1 {
		t.Fatalf("mutating snapshot changed registry")
	}
}

func TestRegistry_IsolatedInstances(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.Observe([]logentry.Entry{{Sender: "X"}})
	if len(b.Tags(FacetSender)) != 0 {
		t.Fatalf("registries share state")
	}
}

func TestRegistry_ConcurrentObserve(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Observe([]logentry.Entry{{Level: logentry.Level(i%5 + 1)}})
			_ = r.Tags(FacetLevel)
		}(i)
	}
	wg.Wait()
	if got := len(r.Tags(FacetLevel)); got != 5 {
		t.Fatalf("levels = %d, want 5", got)
	}
}
