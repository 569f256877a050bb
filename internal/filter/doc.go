// Package filter implements the facet filter engine behind the log list.
//
// # Overview
//
// Every entry has four facets: level, category, subsystem and sender. A Filter
// holds two TagSets per facet, Equals (inclusion) and NotEquals (exclusion).
// Apply evaluates the filter over a full batch of entries and returns the
// passing entries together with Statistics, the per-value counts of the
// passing entries.
//
// # Evaluation
//
// For each facet independently:
//
//   - a non-empty Equals set keeps only entries whose value is a member, and
//     NotEquals is ignored for that facet
//   - otherwise a non-empty NotEquals set drops entries whose value is a member
//   - otherwise the facet imposes no constraint
//
// An entry passes when all four facets pass. Statistics count every facet
// value of every passing entry, so the counts of one facet always sum to the
// number of passing entries. Apply always recomputes from scratch; callers pass
// the whole entry list.
//
// # Mutation
//
// Include and Exclude move a tag into one set and out of the other, so a value
// is never present in both sets of a facet. Clear removes it from both.
// Toggle mirrors the tag controls of the UI: a selected tag is cleared, an
// unset tag gets the current Action.
//
// # Registry
//
// Registry is the grow-only record of every value observed by the process,
// used to populate the filter sheet. It is an explicit object owned by the
// composition root so tests can build isolated instances.
package filter
