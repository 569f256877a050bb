// Package source provides the log stores logscope reads from.
//
// A Source answers one question: which entries exist at or after a point in
// time, restricted by a coarse Predicate the store can evaluate cheaply. Three
// stores are implemented:
//
//   - FileSource: JSON-lines files matched by doublestar globs. The subsystem
//     predicate is checked on a partial decode of each line before the full
//     record is decoded. Each file contributes at most its newest window entries.
//   - SQLiteSource: an "entries" table in a SQLite database. The lower bound and
//     the predicate become the WHERE clause.
//   - HTTPSource: a remote /api/entries endpoint. The lower bound and the
//     predicate become query parameters.
//
// Conditions a store cannot express go in an AcceptFunc, applied in-process by
// Fetch. DefaultAccept keeps the application's main target (no category, main
// sender) plus the allowed subsystems.
//
// Watcher turns filesystem notifications for a FileSource into coalesced change
// signals used by follow mode.
//
// # Record format
//
// One JSON object per line:
//
//	{"time":"2025-10-08T21:01:05.123Z","level":"error","category":"net",
//	 "subsystem":"com.example.app","sender":"Networking","message":"request failed"}
//
// "ts"/"timestamp"/"date", "msg"/"composedMessage" and numeric levels are also
// accepted. Lines without a timestamp are skipped.
package source
