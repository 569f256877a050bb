// Package app is the composition root for logscope.
//
// Run loads config.toml and prefs.toml, applies command-line overrides,
// opens the configured log store and builds a session around it. The
// session gets the coarse subsystem predicate pushed down to the store and
// the in-process accept rule for the app's own entries.
//
// # Following
//
// With follow enabled, the file source is watched with fsnotify and every
// change triggers a load. Other sources (and file sources whose directories
// cannot be watched) are polled at the configured interval. Consecutive
// failures double the wait, up to 30 seconds.
//
// # Diagnostics
//
// The standard logger writes to the diagnostics log while the TUI owns the
// terminal. Load failures are logged and shown in the header; they never
// stop the program.
package app
