// Package config loads marquee's configuration file.
//
// # Overview
//
// Configuration is read with viper from a TOML file and may be overridden by
// MARQUEE_* environment variables. Nested keys map to underscores, so
// tmdb.token becomes MARQUEE_TMDB_TOKEN and history.limit becomes
// MARQUEE_HISTORY_LIMIT.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml
//  3. If the file doesn't exist, fall back to defaults and environment
//  4. Empty or whitespace-only values fall back to defaults
//
// # Default Values
//
//   - Provider: tmdb
//   - Request timeout: 10s
//   - TMDB API: https://api.themoviedb.org/3 (language en-US)
//   - History: enabled, ~/.local/share/marquee/history.db, 50 entries
//   - Log file: ~/.local/state/marquee/marquee.log at info level
//
// # TOML Format
//
//	provider = "tmdb"
//	request_timeout = "10s"
//
//	[tmdb]
//	token = "eyJhbGciOi..."
//	language = "en-US"
//
//	[radarr]
//	url = "http://localhost:7878"
//	api_key = "..."
//
//	[history]
//	limit = 100
//
//	[logging]
//	level = "debug"
//
// # Validation
//
// Load never checks credentials so that commands which do not search
// (history, version) work without them. Call Config.Validate before building
// a searcher.
package config
