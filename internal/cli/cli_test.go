package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/state"
)

type stubSearcher struct {
	mu      sync.Mutex
	results map[string][]movie.Movie
	fail    map[string]bool
	calls   []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]movie.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, query)
	if s.fail[query] {
		return nil, fmt.Errorf("execute request: %w: %w", movie.ErrFetch, errors.New("connection refused"))
	}
	return s.results[query], nil
}

var catalog = map[string][]movie.Movie{
	"batman": {
		{ID: 268, Title: "Batman", ReleaseDate: "1989-06-23", VoteAverage: 7.2, VoteCount: 8000, Source: "tmdb"},
		{ID: 155, Title: "The Dark Knight", ReleaseDate: "2008-07-16", VoteAverage: 8.5, VoteCount: 33000, Source: "tmdb"},
		{ID: 364, Title: "Batman Returns", ReleaseDate: "1992-06-19", VoteAverage: 6.9, VoteCount: 6000, Source: "tmdb"},
	},
	"alien": {
		{ID: 348, Title: "Alien", ReleaseDate: "1979-05-25", VoteAverage: 8.1, VoteCount: 15000, Source: "tmdb"},
	},
}

// setup isolates HOME, supplies credentials and installs searcher.
func setup(t *testing.T, searcher movie.Searcher) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MARQUEE_TMDB_TOKEN", "test-token")

	orig := newSearcher
	newSearcher = func(config.Config, zerolog.Logger) (movie.Searcher, error) { return searcher, nil }
	t.Cleanup(func() { newSearcher = orig })
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("1.2.3", "abc123", "2026-10-17")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearch_TextTable(t *testing.T) {
	setup(t, &stubSearcher{results: catalog})

	out, err := execute(t, "search", "batman")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "The Dark Knight")
	assert.Contains(t, out, "2008")
	assert.Contains(t, out, "8.5")
}

func TestSearch_JSONMultipleQueriesKeepArgumentOrder(t *testing.T) {
	searcher := &stubSearcher{results: catalog}
	setup(t, searcher)

	out, err := execute(t, "search", "alien", "batman", "-o", "json")
	require.NoError(t, err)

	var results []QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "alien", results[0].Query)
	assert.Equal(t, "batman", results[1].Query)
	assert.Len(t, results[1].Movies, 3)
	assert.ElementsMatch(t, []string{"alien", "batman"}, searcher.calls)
}

func TestSearch_FilterAndLimit(t *testing.T) {
	setup(t, &stubSearcher{results: catalog})

	out, err := execute(t, "search", "batman", "-o", "yaml", "--filter", "Year < 2000", "--limit", "1")
	require.NoError(t, err)

	var results []QueryResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.Len(t, results[0].Movies, 1)
	assert.Equal(t, "Batman", results[0].Movies[0].Title)
}

func TestSearch_NoResultsPrintsNotice(t *testing.T) {
	setup(t, &stubSearcher{results: catalog})

	out, err := execute(t, "search", "zzzzznotfound")
	require.NoError(t, err)
	assert.Contains(t, out, state.NoResultsNotice)
}

func TestSearch_FailureReportsErrorAndExitsNonZero(t *testing.T) {
	setup(t, &stubSearcher{results: catalog, fail: map[string]bool{"alien": true}})

	out, err := execute(t, "search", "alien", "batman")
	require.Error(t, err)
	assert.ErrorIs(t, err, movie.ErrFetch)
	assert.Contains(t, err.Error(), "1 of 2 searches failed")
	assert.Contains(t, out, state.ErrorNotice)
	assert.Contains(t, out, "Batman Returns")
	assert.NotContains(t, out, "connection refused")
}

func TestSearch_StructuredFailureHidesErrorDetail(t *testing.T) {
	setup(t, &stubSearcher{results: catalog, fail: map[string]bool{"alien": true}})

	out, err := execute(t, "search", "alien", "-o", "json")
	require.ErrorIs(t, err, movie.ErrFetch)
	assert.NotContains(t, out, "connection refused")

	var results []QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, state.ErrorNotice, results[0].Error)
	assert.Empty(t, results[0].Movies)
}

func TestSearch_CaseInsensitiveFilter(t *testing.T) {
	setup(t, &stubSearcher{results: catalog})

	out, err := execute(t, "search", "batman", "-o", "json", "--filter", `icontains(Title, "DARK")`)
	require.NoError(t, err)

	var results []QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.Len(t, results[0].Movies, 1)
	assert.Equal(t, "The Dark Knight", results[0].Movies[0].Title)
}

func TestSearch_InvalidInputs(t *testing.T) {
	setup(t, &stubSearcher{results: catalog})

	_, err := execute(t, "search", "batman", "--filter", "Title +")
	assert.ErrorContains(t, err, "compile filter expression")

	_, err = execute(t, "search", "batman", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, "search", "   ")
	assert.ErrorContains(t, err, "no non-empty query")

	_, err = execute(t, "search")
	assert.Error(t, err)
}

func TestSearch_RecordsHistory(t *testing.T) {
	setup(t, &stubSearcher{results: catalog})

	_, err := execute(t, "search", "batman", "alien")
	require.NoError(t, err)

	out, err := execute(t, "history", "-o", "json")
	require.NoError(t, err)

	var entries []struct {
		Query string `json:"query"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	queries := make([]string, 0, len(entries))
	for _, e := range entries {
		queries = append(queries, e.Query)
	}
	assert.ElementsMatch(t, []string{"batman", "alien"}, queries)

	out, err = execute(t, "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No searches recorded yet.")
}

func TestHistory_Disabled(t *testing.T) {
	home := setup(t, &stubSearcher{})
	path := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[history]\nenabled = false\n"), 0o600))

	out, err := execute(t, "history", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")
}

func TestRoot_RequiresTerminal(t *testing.T) {
	origTerm, origRun := isTerminal, runTUI
	t.Cleanup(func() { isTerminal, runTUI = origTerm, origRun })

	called := false
	runTUI = func(context.Context, app.Options) error {
		called = true
		return nil
	}

	isTerminal = func() bool { return false }
	_, err := execute(t)
	assert.ErrorIs(t, err, errNoTerminal)
	assert.False(t, called)

	isTerminal = func() bool { return true }
	_, err = execute(t, "--prefs", "/tmp/prefs.toml")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "marquee 1.2.3 (abc123) built on 2026-10-17")

	cmd := NewRootCommand("dev", "none", "unknown")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "marquee development (local-build) built on local-build")
}

func TestLogs_ShowsFilteredTail(t *testing.T) {
	home := setup(t, &stubSearcher{})
	logPath := filepath.Join(home, ".local", "state", "marquee", "marquee.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(logPath), 0o755))
	require.NoError(t, os.WriteFile(logPath, []byte(
		`{"level":"info","query":"batman","message":"movie search complete"}`+"\n"+
			`{"level":"error","query":"alien","message":"movie search failed"}`+"\n",
	), 0o644))

	out, err := execute(t, "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "movie search complete")
	assert.Contains(t, out, "movie search failed")

	out, err = execute(t, "logs", "--level", "warn")
	require.NoError(t, err)
	assert.NotContains(t, out, "movie search complete")
	assert.Contains(t, out, "query=alien")
}

func TestLogs_EmptyLog(t *testing.T) {
	setup(t, &stubSearcher{})

	out, err := execute(t, "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "No log entries")
}

func TestLogs_RejectsUnknownLevel(t *testing.T) {
	setup(t, &stubSearcher{})

	for _, level := range []string{"trace", "fatal", "wrn"} {
		_, err := execute(t, "logs", "--level", level)
		assert.ErrorContains(t, err, "unknown log level", "level %q", level)
	}
}
