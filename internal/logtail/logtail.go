package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/buger/jsonparser"
	"github.com/rs/zerolog"
)

// Tail returns at most n lines from the end of the file at path, oldest
// first. n <= 0 returns every line. A missing file yields no lines.
func Tail(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if n <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, n)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % n
		if count < n {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == n {
		for i := range count {
			lines[i] = ring[(idx+i)%n]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// AtLeast keeps JSON log lines whose level is threshold or more severe. Lines that
// carry no level (plain text, panics) are always kept.
func AtLeast(lines []string, threshold zerolog.Level) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		raw, err := jsonparser.GetString([]byte(line), zerolog.LevelFieldName)
		if err != nil {
			kept = append(kept, line)
			continue
		}
		level, err := zerolog.ParseLevel(raw)
		if err != nil || level >= threshold {
			kept = append(kept, line)
		}
	}
	return kept
}

// Render writes lines to w in zerolog's console format. Lines that are not
// JSON events are written unchanged.
func Render(w io.Writer, lines []string, color bool) error {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}
	for _, line := range lines {
		if _, err := console.Write([]byte(line)); err == nil {
			continue
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write log line: %w", err)
		}
	}
	return nil
}
