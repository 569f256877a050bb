// Package ui implements the terminal interface for logscope using Bubble Tea.
//
// The Model holds no entries of its own. Every key that changes the data
// calls a session setter and then pulls a fresh session.View; background
// loads reach the program as sessionChangedMsg through the subscription
// installed by Run.
//
// # Screens
//
//   - List: entries newest first (or oldest first), consecutive entries
//     from the same subsystem, sender and category grouped under one header.
//   - Detail: the full message with the entry's four tags. Keys 1-4 toggle
//     subsystem, category, library and level with the current Show/Hide action.
//   - Filter sheet: every tag seen this session, grouped by facet, with
//     counts from the current result.
//
// # Rendering
//
// Lipgloss leaves gaps in background color between styled segments, so all
// text goes through BgStyle, which applies the surface color to every cell.
package ui
