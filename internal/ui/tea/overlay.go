package tea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/movie"
)

// handleOverlayKey processes keyboard input while the detail overlay is open.
// Only the overlay's own viewport scrolls; the grid stays put.
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, m.keys.Close) {
		m.store.CloseOverlay()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}

// overlaySize returns the viewport dimensions inside the overlay box.
func (m Model) overlaySize() (int, int) {
	w := min(72, m.width-6)
	h := m.height - chromeHeight - 4
	return max(20, w), max(3, h)
}

// renderOverlay draws the detail box centered over the body area.
func (m Model) renderOverlay(bodyHeight int) string {
	styles := m.theme.Styles()
	box := styles.Overlay.Render(m.overlay.View())
	return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, box)
}

// renderOverlayContent lays out every known field of mv for the viewport.
func (m Model) renderOverlayContent(mv movie.Movie) string {
	styles := m.theme.Styles()
	width, _ := m.overlaySize()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render(mv.DisplayTitle()))
	b.WriteString("\n")
	if mv.OriginalTitle != "" && mv.OriginalTitle != mv.Title {
		b.WriteString(styles.MutedText.Italic(true).Render(mv.OriginalTitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(" ")
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	field("Released", mv.ReleaseDate)
	rating := styles.RatingStyle(mv).Render("★ " + mv.Rating())
	if mv.VoteCount > 0 {
		rating += styles.MutedText.Render(fmt.Sprintf(" (%d votes)", mv.VoteCount))
	}
	field("Rating", rating)
	field("Language", mv.Language)
	field("Genres", strings.Join(mv.Genres, ", "))
	if mv.Runtime > 0 {
		field("Runtime", fmt.Sprintf("%dh %02dm", mv.Runtime/60, mv.Runtime%60))
	}
	field("Poster", mv.PosterURL)
	field("Source", mv.Source)

	b.WriteString("\n")
	overview := strings.TrimSpace(mv.Overview)
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(overview))
	return b.String()
}
