// Package session holds the state of one log viewing session.
//
// A Session owns the accumulated entries, the user's filter and search text,
// and the views derived from them:
//
//	entries ──filter.Apply──→ filtered (+ statistics) ──Search──→ searched
//
// Every setter recomputes the affected views under the session lock, so a
// Snapshot never shows a view that is stale relative to its inputs.
//
// # Loading
//
// Load fetches entries newer than the high-water mark (the timestamp of the
// last appended entry) on a background goroutine. The result is committed in
// one locked step: entries at or before the high-water mark are dropped, the
// rest are appended in received order and recorded in the Registry, the
// high-water mark advances and the loading flag drops. Fetch errors are logged
// and kept in View.Err until the next successful fetch; entries already loaded
// stay in place.
//
// Loads may overlap. Loading stays true while any fetch is in flight.
//
// # Clearing
//
// Clear empties the entry list and bumps a generation counter. Fetches that
// started before the Clear are discarded when they complete. The filter, the
// search text, the Registry and the high-water mark survive, so the next Load
// only brings in entries that arrived after the last one seen.
//
// # Observers
//
// Subscribe registers a callback that receives a View after each change. The
// UI uses it to turn background commits into redraws.
package session
