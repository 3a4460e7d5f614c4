package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider names accepted by the provider key.
const (
	ProviderTMDB   = "tmdb"
	ProviderRadarr = "radarr"
)

// Config captures everything marquee reads from config.toml and MARQUEE_* env.
type Config struct {
	Provider       string
	RequestTimeout time.Duration
	TMDB           TMDBConfig
	Radarr         RadarrConfig
	History        HistoryConfig
	Logging        LoggingConfig
}

// TMDBConfig configures the TMDB search client.
type TMDBConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Token        string `mapstructure:"token"`
	APIKey       string `mapstructure:"api_key"`
	Language     string `mapstructure:"language"`
	IncludeAdult bool   `mapstructure:"include_adult"`
}

// RadarrConfig configures the Radarr lookup provider.
type RadarrConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// HistoryConfig configures the search history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

// LoggingConfig configures the zerolog sink.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

const (
	envPrefix             = "MARQUEE"
	defaultConfigPath     = "~/.config/marquee/config.toml"
	defaultHistoryPath    = "~/.local/share/marquee/history.db"
	defaultLogFile        = "~/.local/state/marquee/marquee.log"
	defaultTMDBBaseURL    = "https://api.themoviedb.org/3"
	defaultTMDBImageURL   = "https://image.tmdb.org/t/p/w500"
	defaultLanguage       = "en-US"
	defaultRequestTimeout = 10 * time.Second
	defaultHistoryLimit   = 50
	defaultLogLevel       = "info"
)

// Load locates and parses the marquee config, falling back to defaults when
// the file is missing. MARQUEE_* environment variables override file values,
// e.g. MARQUEE_TMDB_TOKEN for tmdb.token.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(resolved)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var raw struct {
		Provider       string        `mapstructure:"provider"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"`
		TMDB           TMDBConfig    `mapstructure:"tmdb"`
		Radarr         RadarrConfig  `mapstructure:"radarr"`
		History        HistoryConfig `mapstructure:"history"`
		Logging        LoggingConfig `mapstructure:"logging"`
	}
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := Config{
		Provider:       strings.ToLower(strings.TrimSpace(raw.Provider)),
		RequestTimeout: raw.RequestTimeout,
		TMDB:           raw.TMDB,
		Radarr:         raw.Radarr,
		History:        raw.History,
		Logging:        raw.Logging,
	}
	normalize(&cfg)
	return cfg, nil
}

// Validate checks that the selected provider has what it needs to search.
// Commands that never search (history, version) skip it.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderTMDB:
		if c.TMDB.Token == "" && c.TMDB.APIKey == "" {
			return fmt.Errorf("tmdb.token or tmdb.api_key must be set (or MARQUEE_TMDB_TOKEN)")
		}
	case ProviderRadarr:
		if c.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when provider is radarr")
		}
		if c.Radarr.APIKey == "" {
			return fmt.Errorf("radarr.api_key is required when provider is radarr")
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderTMDB, ProviderRadarr)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}
	return nil
}

// DefaultPath returns the default config file path before expansion.
func DefaultPath() string {
	return defaultConfigPath
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderTMDB)
	v.SetDefault("request_timeout", defaultRequestTimeout)

	v.SetDefault("tmdb.base_url", defaultTMDBBaseURL)
	v.SetDefault("tmdb.image_base_url", defaultTMDBImageURL)
	v.SetDefault("tmdb.token", "")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.language", defaultLanguage)
	v.SetDefault("tmdb.include_adult", false)

	v.SetDefault("radarr.url", "")
	v.SetDefault("radarr.api_key", "")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", defaultHistoryPath)
	v.SetDefault("history.limit", defaultHistoryLimit)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.file", defaultLogFile)
}

func normalize(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderTMDB
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	cfg.TMDB.BaseURL = orDefault(cfg.TMDB.BaseURL, defaultTMDBBaseURL)
	cfg.TMDB.ImageBaseURL = orDefault(cfg.TMDB.ImageBaseURL, defaultTMDBImageURL)
	cfg.TMDB.Token = strings.TrimSpace(cfg.TMDB.Token)
	cfg.TMDB.APIKey = strings.TrimSpace(cfg.TMDB.APIKey)
	cfg.TMDB.Language = orDefault(cfg.TMDB.Language, defaultLanguage)

	cfg.Radarr.URL = strings.TrimSpace(cfg.Radarr.URL)
	cfg.Radarr.APIKey = strings.TrimSpace(cfg.Radarr.APIKey)

	cfg.History.Path = mustExpand(orDefault(cfg.History.Path, defaultHistoryPath))
	if cfg.History.Limit < 0 {
		cfg.History.Limit = 0
	}

	cfg.Logging.Level = strings.ToLower(orDefault(cfg.Logging.Level, defaultLogLevel))
	cfg.Logging.File = mustExpand(orDefault(cfg.Logging.File, defaultLogFile))
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
