// Package logtail reads and pretty-prints the tail of marquee's log file.
//
// # Overview
//
// The interactive UI owns the terminal, so it logs JSON events to a file
// (~/.local/state/marquee/marquee.log by default). The `marquee logs` command
// uses this package to show what happened during a session:
//
//  1. Tail: extract the last N lines without loading the whole file
//  2. AtLeast: drop events below a severity threshold
//  3. Render: print events in zerolog's console format
//
// # Ring Buffer
//
// Tail scans the file once and keeps a circular buffer of n lines, so memory
// is O(n) regardless of file size. Lines come back oldest first.
//
// # Level Filtering
//
// Levels are read with jsonparser straight from each line's "level" field;
// lines are never fully decoded. Lines without a level are kept so that
// panics and other raw output still show up.
//
// # Edge Cases
//
//   - Missing file: no lines, no error (nothing has been logged yet)
//   - n <= 0: every line
//   - Lines longer than 1MB: read error
package logtail
