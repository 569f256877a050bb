package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/logscope/internal/source"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// Loader fetches new entries into the session.
type Loader interface {
	LoadSync(ctx context.Context) error
}

// StartPoller launches a background goroutine that loads new entries at a
// fixed cadence, backing off while the source keeps failing. It returns immediately.
func StartPoller(ctx context.Context, l Loader, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			if err := l.LoadSync(ctx); err != nil {
				failures++
				log.Printf("poll failed (attempt %d): %v", failures, err)
				continue
			}
			failures = 0
		}
	}()
}

// calculateBackoff doubles the interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// StartWatcher loads new entries whenever the watched log files change.
// It returns immediately; both goroutines stop when ctx is cancelled.
func StartWatcher(ctx context.Context, w *source.Watcher, l Loader) {
	go w.Start(ctx)
	go func() {
		for range w.Changes {
			if err := l.LoadSync(ctx); err != nil && ctx.Err() == nil {
				log.Printf("reload after change failed: %v", err)
			}
		}
	}()
}
