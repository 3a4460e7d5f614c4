// Package radarr searches movies through a Radarr instance's lookup endpoint,
// which proxies TMDB metadata without needing a TMDB key of your own.
package radarr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/five82/marquee/internal/movie"
)

// Ensure Client implements movie.Searcher at compile time.
var _ movie.Searcher = (*Client)(nil)

// SourceName tags movies produced by this package.
const SourceName = "radarr"

const defaultTimeout = 30 * time.Second

// Client wraps the starr Radarr client.
type Client struct {
	client *radarr.Radarr
	logger zerolog.Logger
}

// NewClient creates a Radarr lookup client. Unlike arr tooling that manages a
// library, no connection test is made here: the first search surfaces any
// connectivity problem through the normal error path.
func NewClient(url, apiKey string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	url = strings.TrimSpace(url)
	apiKey = strings.TrimSpace(apiKey)
	if url == "" {
		return nil, fmt.Errorf("radarr url is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("radarr api key is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	config := starr.New(apiKey, url, timeout)
	return &Client{
		client: radarr.New(config),
		logger: logger,
	}, nil
}

// Search looks up movies matching query.
func (c *Client) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	results, err := c.client.LookupContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w: %w", query, movie.ErrFetch, err)
	}

	movies := make([]movie.Movie, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}
		movies = append(movies, toMovie(result))
	}
	c.logger.Debug().Str("query", query).Int("count", len(movies)).Msg("radarr lookup complete")
	return movies, nil
}

func toMovie(r *radarr.Movie) movie.Movie {
	m := movie.Movie{
		ID:            r.TmdbID,
		Title:         strings.TrimSpace(r.Title),
		OriginalTitle: strings.TrimSpace(r.OriginalTitle),
		Overview:      strings.TrimSpace(r.Overview),
		Runtime:       r.Runtime,
		Source:        SourceName,
	}
	if len(r.Genres) > 0 {
		m.Genres = append([]string(nil), r.Genres...)
	}
	switch {
	case !r.InCinemas.IsZero():
		m.ReleaseDate = r.InCinemas.Format("2006-01-02")
	case r.Year > 0:
		m.ReleaseDate = fmt.Sprintf("%04d-01-01", r.Year)
	}
	for _, img := range r.Images {
		if img == nil {
			continue
		}
		switch strings.ToLower(img.CoverType) {
		case "poster":
			m.PosterURL = imageURL(img)
		case "fanart":
			m.BackdropURL = imageURL(img)
		}
	}
	return m
}

func imageURL(img *starr.Image) string {
	if img.RemoteURL != "" {
		return img.RemoteURL
	}
	return img.URL
}
