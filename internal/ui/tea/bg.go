package tea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders text segments on a fixed background so that gaps between
// styled segments do not fall back to the terminal default.
type BgStyle struct {
	bg lipgloss.Color
}

// NewBgStyle returns a BgStyle for the given color.
func NewBgStyle(color string) BgStyle {
	return BgStyle{bg: lipgloss.Color(color)}
}

// Render renders text with style on the background.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	return style.Background(b.bg).Render(text)
}

// Spaces renders n background spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Sep renders a separator string on the background.
func (b BgStyle) Sep(s string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(s)
}

// Join joins rendered parts with sep.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, sep)
}
