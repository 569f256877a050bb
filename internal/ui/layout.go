package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 100
)

// Entry display limits.
const (
	// listMessageLines caps how many wrapped message lines a row shows in
	// the list. The detail view shows the whole message.
	listMessageLines = 3
)
