// Package config loads the logscope configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logscope/config.toml
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	app_subsystem   = "com.example.app"
//	subsystems      = ["com.appsflyer.lib", "com.apple.runtime-issues"]
//	main_sender     = "FBS"
//	follow          = true
//	poll_seconds    = 2
//	diagnostics_log = "~/.local/state/logscope/logscope.log"
//	export_dir      = "~/Downloads"
//
//	[source]
//	kind     = "file"   # file | sqlite | http
//	paths    = ["~/.local/state/logscope/logs/**/*.jsonl"]
//	database = "~/.local/share/logscope/logs.db"
//	endpoint = "127.0.0.1:7488"
//	window   = 5000
//
// app_subsystem and subsystems form the allow-list pushed down to the log
// store. main_sender identifies entries from the application's main target,
// which are kept even without an allowed subsystem.
//
// An explicit empty subsystems list disables the additional subsystems; an
// absent key keeps the defaults.
//
// # Path Expansion
//
// A leading ~ is expanded and relative paths are made absolute for the config
// file itself, diagnostics_log, export_dir, database and every entry of paths.
// Glob characters in paths are preserved.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors ("parse config: ...") and an unknown or
// incomplete source kind.
package config
