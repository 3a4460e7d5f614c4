package tea

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/state"
)

// searchResultMsg carries a settled fetch back to Update, tagged with the
// request that spawned it.
type searchResultMsg struct {
	req    state.Request
	movies []movie.Movie
	err    error
}

type historyLoadedMsg struct {
	queries []string
}

type toastExpiredMsg struct {
	id int
}

func keyMatches(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}
