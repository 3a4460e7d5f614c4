package tea

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/state"
)

// Indicator text for the non-grid body states.
const (
	errorIndicator = state.ErrorNotice
	loadingLabel   = "Searching..."
	emptyHint      = "Type a title and press Enter to search."
)

// View implements tea.Model.
func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderCommandBar()
	toast := m.renderToast()

	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer)-1)

	var body string
	if m.snapshot.OverlayOpen && m.snapshot.Selected != nil {
		body = m.renderOverlay(bodyHeight)
	} else {
		body = m.renderBody()
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, toast, footer)
}

// renderBody picks the indicator for the current status. Error wins over
// loading, and the grid shows only when results exist.
func (m Model) renderBody() string {
	switch {
	case m.snapshot.Status == state.StatusError:
		return m.renderError()
	case m.snapshot.Status == state.StatusLoading:
		return m.renderLoading()
	case len(m.snapshot.Movies) > 0:
		return m.renderGrid()
	default:
		return m.theme.Styles().FaintText.Padding(1, 2).Render(emptyHint)
	}
}

func (m Model) renderLoading() string {
	styles := m.theme.Styles()
	return lipgloss.NewStyle().Padding(1, 2).Render(
		m.spinner.View() + " " + styles.WarningText.Render(loadingLabel),
	)
}

func (m Model) renderError() string {
	styles := m.theme.Styles()
	lines := []string{styles.DangerText.Render(errorIndicator)}
	hint := "Press r to retry."
	if m.snapshot.IsOffline() {
		hint = "Still failing. Check your connection, then press r to retry."
	}
	lines = append(lines, styles.MutedText.Render(hint))
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderToast() string {
	if m.toast == "" {
		return ""
	}
	return m.theme.Styles().Toast.Render(m.toast)
}

// renderHeader renders the logo, search input and result count.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("marquee", styles.Logo),
		m.input.View(),
	}
	if m.snapshot.Status == state.StatusIdle && m.snapshot.Query != "" {
		parts = append(parts, bg.Render(resultCount(len(m.snapshot.Movies)), styles.MutedText))
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders key hints and the active theme.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Sep(":")

	hints := m.help.View(m.keys)
	theme := bg.Render("t", styles.AccentText) + colon + bg.Render(m.theme.Name, styles.FaintText)
	return styles.Header.Width(m.width).Render(hints + bg.Spaces(2) + theme)
}

func resultCount(n int) string {
	switch n {
	case 0:
		return "no results"
	case 1:
		return "1 result"
	default:
		return strconv.Itoa(n) + " results"
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
