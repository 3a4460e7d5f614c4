package tea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/state"
)

// Card geometry, borders included.
const (
	cardWidth  = 30
	cardHeight = 4
	cardGap    = 1
	// header, toast line and command bar
	chromeHeight = 4
)

// handleGridKey processes keyboard input while the result grid has focus.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.gridColumns()

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.Search):
		m.focus = focusInput
		return m, m.input.Focus()
	case keyMatches(msg, m.keys.Retry) && m.snapshot.Status == state.StatusError:
		return m.retry()
	case keyMatches(msg, m.keys.Theme):
		return m.cycleTheme()
	case keyMatches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case keyMatches(msg, m.keys.Select):
		return m.selectCurrent()
	case keyMatches(msg, m.keys.Up):
		m.moveCursor(-cols)
	case keyMatches(msg, m.keys.Down):
		m.moveCursor(cols)
	case keyMatches(msg, m.keys.Left):
		m.moveCursor(-1)
	case keyMatches(msg, m.keys.Right):
		m.moveCursor(1)
	case keyMatches(msg, m.keys.PageUp):
		m.moveCursor(-cols * m.visibleRows())
	case keyMatches(msg, m.keys.PageDown):
		m.moveCursor(cols * m.visibleRows())
	case keyMatches(msg, m.keys.Home):
		m.moveCursor(-len(m.snapshot.Movies))
	case keyMatches(msg, m.keys.End):
		m.moveCursor(len(m.snapshot.Movies))
	}
	return m, nil
}

// moveCursor shifts the cursor by delta, clamped to the result list. It is
// ignored while the scroll lock is held.
func (m *Model) moveCursor(delta int) {
	if m.store.ScrollLock().Locked() {
		return
	}
	n := len(m.snapshot.Movies)
	if n == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, n-1)
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	cols := m.gridColumns()
	rows := m.visibleRows()
	row := m.cursor / cols
	if row < m.offset {
		m.offset = row
	}
	if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// selectCurrent opens the overlay for the movie under the cursor.
func (m Model) selectCurrent() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Movies) {
		return m, nil
	}
	return m.selectMovie(m.snapshot.Movies[m.cursor])
}

func (m Model) selectMovie(mv movie.Movie) (tea.Model, tea.Cmd) {
	m.store.Select(mv)
	m.refresh()
	m.overlay.SetContent(m.renderOverlayContent(mv))
	m.overlay.GotoTop()
	m.logger.Debug().Int64("movie_id", mv.ID).Str("title", mv.Title).Msg("movie selected")
	return m, nil
}

// gridColumns returns the pinned column count or as many as fit.
func (m Model) gridColumns() int {
	if m.columns > 0 {
		return m.columns
	}
	return max(1, (m.width+cardGap)/(cardWidth+cardGap))
}

func (m Model) visibleRows() int {
	return max(1, (m.height-chromeHeight)/cardHeight)
}

// renderGrid renders the visible rows of result cards.
func (m Model) renderGrid() string {
	styles := m.theme.Styles()
	cols := m.gridColumns()
	rows := m.visibleRows()
	movies := m.snapshot.Movies

	start := m.offset * cols
	end := min(len(movies), start+rows*cols)

	var lines []string
	for rowStart := start; rowStart < end; rowStart += cols {
		rowEnd := min(end, rowStart+cols)
		cards := make([]string, 0, cols*2)
		for i := rowStart; i < rowEnd; i++ {
			if i > rowStart {
				cards = append(cards, strings.Repeat(" ", cardGap))
			}
			cards = append(cards, m.renderCard(movies[i], i == m.cursor && m.focus == focusGrid, styles))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderCard renders one movie summary: title on the first line, then the
// release year and rating badge.
func (m Model) renderCard(mv movie.Movie, selected bool, styles Styles) string {
	style := styles.Card
	if selected {
		style = styles.CardSelected
	}
	inner := cardWidth - 4 // border + padding

	title := truncate(titleOnly(mv), inner)
	year := "----"
	if y := mv.Year(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}
	meta := styles.MutedText.Render(year) + " " + styles.RatingStyle(mv).Render("★ "+mv.Rating())

	return style.Width(cardWidth - 2).Render(title + "\n" + meta)
}

func titleOnly(mv movie.Movie) string {
	if t := strings.TrimSpace(mv.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(mv.OriginalTitle); t != "" {
		return t
	}
	return "Untitled"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
