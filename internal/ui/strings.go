package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// displayValue renders empty facet values visibly.
func displayValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(none)"
	}
	return value
}

// messageLines wraps a message to width and keeps at most limit lines,
// marking the cut with an ellipsis. A limit of zero keeps every line.
func messageLines(message string, width, limit int) []string {
	message = strings.TrimRight(message, "\n")
	if message == "" {
		return []string{""}
	}
	wrapped := strings.Split(ansi.Wrap(message, max(width, 1), " "), "\n")
	if limit > 0 && len(wrapped) > limit {
		wrapped = wrapped[:limit]
		last := []rune(strings.TrimRight(wrapped[limit-1], " "))
		if len(last) > width-1 {
			last = last[:max(width-1, 0)]
		}
		wrapped[limit-1] = string(last) + "…"
	}
	return wrapped
}

// truncateMiddle shortens long paths by eliding their middle.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
