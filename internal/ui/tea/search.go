package tea

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// handleInputKey processes keyboard input while the search box has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Submit):
		return m.submit(strings.TrimSpace(m.input.Value()))

	case keyMatches(msg, m.keys.Blur):
		if m.snapshot.Query != "" {
			m.focus = focusGrid
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands query to the store and, when it starts a new request, fetches.
func (m Model) submit(query string) (tea.Model, tea.Cmd) {
	req, ok := m.store.Submit(query)
	if !ok {
		return m, nil
	}
	return m.begin(req, m.recordHistory(query))
}

// retry re-issues the current query after an error.
func (m Model) retry() (tea.Model, tea.Cmd) {
	req, ok := m.store.Retry()
	if !ok {
		return m, nil
	}
	return m.begin(req)
}

func (m Model) begin(req state.Request, extra ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.refresh()
	m.cursor = 0
	m.offset = 0
	m.logger.Debug().Str("query", req.Query).Uint64("seq", req.Seq).Msg("search submitted")

	cmds := append([]tea.Cmd{m.fetch(req), m.spinner.Tick}, extra...)
	return m, tea.Batch(cmds...)
}

// fetch runs the search off the update loop. Each fetch is independent;
// stale results are dropped by the store when they settle.
func (m Model) fetch(req state.Request) tea.Cmd {
	if m.searcher == nil {
		return func() tea.Msg {
			return searchResultMsg{req: req, err: fmt.Errorf("no search provider configured: %w", movie.ErrFetch)}
		}
	}
	searcher := m.searcher
	parent := m.ctx
	timeout := m.fetchTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		movies, err := searcher.Search(ctx, req.Query)
		return searchResultMsg{req: req, movies: movies, err: err}
	}
}

// handleSearchResult settles a fetch and raises the no-results notice.
func (m Model) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	outcome := m.store.Settle(msg.req, msg.movies, msg.err)
	if !outcome.Applied {
		return m, nil
	}
	m.refresh()
	m.cursor = 0
	m.offset = 0

	m.focus = focusGrid
	m.input.Blur()
	if outcome.Notice != "" {
		return m, m.showToast(outcome.Notice)
	}
	return m, nil
}

// showToast displays text until the toast timer fires.
func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	id := m.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	h := m.history
	logger := m.logger
	return func() tea.Msg {
		queries, err := h.Queries(suggestionLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("load search history")
			return nil
		}
		return historyLoadedMsg{queries: queries}
	}
}

// recordHistory stores query and reloads suggestions. Failures never block
// searching.
func (m Model) recordHistory(query string) tea.Cmd {
	if m.history == nil {
		return nil
	}
	h := m.history
	logger := m.logger
	return func() tea.Msg {
		if err := h.Add(query); err != nil {
			logger.Warn().Err(err).Str("query", query).Msg("record search history")
			return nil
		}
		queries, err := h.Queries(suggestionLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("load search history")
			return nil
		}
		return historyLoadedMsg{queries: queries}
	}
}

// cycleTheme switches to the next theme and persists the choice.
func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.snapshot.Selected != nil {
		m.overlay.SetContent(m.renderOverlayContent(*m.snapshot.Selected))
	}
	if m.prefsPath == "" {
		return m, nil
	}

	p := prefs.Prefs{Theme: m.theme.Name, Columns: m.columns}
	path := m.prefsPath
	logger := m.logger
	return m, func() tea.Msg {
		if err := prefs.Save(path, p); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("save preferences")
		}
		return nil
	}
}
