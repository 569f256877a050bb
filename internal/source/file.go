package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/five82/logscope/internal/logentry"
)

// FileSource reads JSON-lines log files matched by one or more glob patterns.
// Patterns support recursive matches such as ~/logs/**/*.jsonl.
type FileSource struct {
	patterns []string
	window   int
}

// NewFileSource builds a FileSource. window bounds the entries kept per file.
func NewFileSource(patterns []string, window int) *FileSource {
	if window <= 0 {
		window = DefaultWindow
	}
	return &FileSource{patterns: slices.Clone(patterns), window: window}
}

// Patterns returns the configured glob patterns.
func (s *FileSource) Patterns() []string {
	return slices.Clone(s.patterns)
}

// Paths expands the patterns into the matching files, deduplicated and sorted.
func (s *FileSource) Paths() ([]string, error) {
	var paths []string
	for _, pattern := range s.patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// Entries implements Source.
func (s *FileSource) Entries(ctx context.Context, q Query) ([]logentry.Entry, error) {
	paths, err := s.Paths()
	if err != nil {
		return nil, err
	}
	var all []logentry.Entry
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := readFile(path, q, s.window)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	if len(paths) > 1 {
		slices.SortStableFunc(all, func(a, b logentry.Entry) int { return a.Time.Compare(b.Time) })
	}
	return all, nil
}

// probe is decoded before the full record so the subsystem predicate can
// reject a line cheaply.
type probe struct {
	Subsystem string `json:"subsystem"`
}

// readFile returns at most window matching entries from the end of the file.
func readFile(path string, q Query, window int) ([]logentry.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	ring := make([]logentry.Entry, window)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx, skipped := 0, 0, 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if !q.Predicate.IsZero() {
			var p probe
			if err := json.Unmarshal(line, &p); err != nil {
				skipped++
				continue
			}
			if !q.Predicate.Match(p.Subsystem) {
				continue
			}
		}
		entry, err := logentry.Decode(line)
		if err != nil {
			skipped++
			continue
		}
		if !q.Since.IsZero() && entry.Time.Before(q.Since) {
			continue
		}
		ring[idx] = entry
		idx = (idx + 1) % window
		if count < window {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if skipped > 0 {
		log.Printf("skipped %d malformed lines in %s", skipped, path)
	}

	entries := make([]logentry.Entry, count)
	if count == window {
		for i := 0; i < count; i++ {
			entries[i] = ring[(idx+i)%window]
		}
	} else {
		copy(entries, ring[:count])
	}
	return entries, nil
}
