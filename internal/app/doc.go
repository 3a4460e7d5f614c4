// Package app is the composition root for the marquee TUI.
//
// # Overview
//
// Run wires configuration, logging, the search provider, search history,
// preferences and the bubbletea UI together, then blocks until the user quits
// or the context is cancelled.
//
// # Startup Sequence
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config.toml + MARQUEE_* env
//	       ├─────> cfg.Validate()      Provider credentials present
//	       ├─────> logging.OpenFile()  zerolog sink (the TUI owns the terminal)
//	       ├─────> NewSearcher()       tmdb or radarr
//	       ├─────> prefs.Load()        Theme and grid columns
//	       ├─────> OpenHistory()       bbolt search history (optional)
//	       └─────> tea.Run()           Start TUI (blocks)
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Config file present but unparseable
//   - Missing provider credentials
//   - Log file cannot be opened
//
// Degraded but running:
//   - Unreadable prefs fall back to defaults
//   - History that cannot be opened is disabled for the session
//   - Search failures are shown in the UI and logged
//
// NewSearcher and OpenHistory are exported so the one-shot CLI commands build
// the same provider and history store as the TUI.
package app
