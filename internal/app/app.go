package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/history"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/movie"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/radarr"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
	uitea "github.com/five82/marquee/internal/ui/tea"
)

// Options configure the marquee application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/marquee/prefs.toml
}

// Run boots the marquee TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logFile, err := logging.OpenFile(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	searcher, err := NewSearcher(cfg, logger)
	if err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	uiOpts := uitea.Options{
		Searcher:     searcher,
		Store:        newStore(logger),
		Logger:       logger,
		Theme:        userPrefs.Theme,
		Columns:      userPrefs.Columns,
		PrefsPath:    opts.PrefsPath,
		FetchTimeout: cfg.RequestTimeout,
	}
	if uiOpts.PrefsPath == "" {
		uiOpts.PrefsPath = prefs.DefaultPath()
	}

	if hist := OpenHistory(cfg, logger); hist != nil {
		defer func() { _ = hist.Close() }()
		uiOpts.History = hist
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Str("theme", userPrefs.Theme).
		Msg("starting marquee")

	return uitea.Run(ctx, uiOpts)
}

// newStore wires a scroll lock whose transitions are logged.
func newStore(logger zerolog.Logger) *state.Store {
	lock := state.NewScrollLock(func(locked bool) {
		logger.Debug().Bool("locked", locked).Msg("scroll lock changed")
	})
	return state.NewStore(lock, logger)
}

// NewSearcher builds the search provider selected by cfg.Provider.
func NewSearcher(cfg config.Config, logger zerolog.Logger) (movie.Searcher, error) {
	switch cfg.Provider {
	case config.ProviderRadarr:
		client, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, cfg.RequestTimeout, logger)
		if err != nil {
			return nil, fmt.Errorf("init radarr client: %w", err)
		}
		return client, nil
	case config.ProviderTMDB, "":
		client, err := tmdb.NewClient(tmdb.Options{
			BaseURL:      cfg.TMDB.BaseURL,
			ImageBaseURL: cfg.TMDB.ImageBaseURL,
			Token:        cfg.TMDB.Token,
			APIKey:       cfg.TMDB.APIKey,
			Language:     cfg.TMDB.Language,
			IncludeAdult: cfg.TMDB.IncludeAdult,
			Timeout:      cfg.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init tmdb client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// OpenHistory opens the search history database. It returns nil when history
// is disabled or cannot be opened; a broken history never blocks searching.
func OpenHistory(cfg config.Config, logger zerolog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path, cfg.History.Limit)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.History.Path).Msg("search history unavailable")
		return nil
	}
	return store
}
