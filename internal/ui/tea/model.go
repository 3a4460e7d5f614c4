package tea

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/state"
)

const (
	defaultWidth        = 80
	defaultHeight       = 24
	defaultFetchTimeout = 10 * time.Second
	toastDuration       = 3 * time.Second
	suggestionLimit     = 50
)

// History is the subset of the history store the UI needs.
type History interface {
	Add(query string) error
	Queries(limit int) ([]string, error)
}

// Options configures a Model.
type Options struct {
	Context      context.Context
	Searcher     movie.Searcher
	Store        *state.Store
	History      History // optional
	Logger       zerolog.Logger
	Theme        string
	Columns      int // 0 sizes the grid to the terminal
	PrefsPath    string
	FetchTimeout time.Duration
}

type focus int

const (
	focusInput focus = iota
	focusGrid
)

// Model is the root bubbletea model. It renders from state.Store snapshots
// and feeds user events and fetch results back into the store.
type Model struct {
	ctx          context.Context
	searcher     movie.Searcher
	store        *state.Store
	history      History
	logger       zerolog.Logger
	prefsPath    string
	fetchTimeout time.Duration

	theme   Theme
	columns int
	keys    keyMap

	width  int
	height int

	input   textinput.Model
	spinner spinner.Model
	overlay viewport.Model
	help    help.Model

	snapshot state.Snapshot
	focus    focus
	cursor   int
	offset   int // first visible grid row

	toast   string
	toastID int
}

// New builds a Model ready to hand to tea.NewProgram.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(nil, opts.Logger)
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.ShowSuggestions = true
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		searcher:     opts.Searcher,
		store:        store,
		history:      opts.History,
		logger:       opts.Logger,
		prefsPath:    opts.PrefsPath,
		fetchTimeout: timeout,
		theme:        GetTheme(opts.Theme),
		columns:      opts.Columns,
		keys:         defaultKeyMap(),
		width:        defaultWidth,
		height:       defaultHeight,
		input:        ti,
		spinner:      sp,
		overlay:      viewport.New(defaultWidth, defaultHeight),
		help:         help.New(),
		snapshot:     store.Snapshot(),
		focus:        focusInput,
	}
	m.resize()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistory())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ensureCursorVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchResultMsg:
		return m.handleSearchResult(msg)

	case historyLoadedMsg:
		m.input.SetSuggestions(msg.queries)
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.Status != state.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.snapshot.OverlayOpen {
		return m.handleOverlayKey(msg)
	}
	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleGridKey(msg)
}

// refresh pulls a fresh snapshot from the store.
func (m *Model) refresh() {
	m.snapshot = m.store.Snapshot()
}

func (m *Model) resize() {
	m.input.Width = max(10, m.width-30)
	m.help.Width = m.width
	w, h := m.overlaySize()
	m.overlay.Width = w
	m.overlay.Height = h
	if m.snapshot.Selected != nil {
		m.overlay.SetContent(m.renderOverlayContent(*m.snapshot.Selected))
	}
}

// Run starts the interactive program and blocks until it exits. The overlay
// and its scroll lock are released on every exit path.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		opts.Store = state.NewStore(nil, opts.Logger)
	}
	defer opts.Store.Shutdown()

	opts.Context = ctx
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
