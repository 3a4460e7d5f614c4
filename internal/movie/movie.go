// Package movie defines the movie record shared by every search provider.
package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrFetch marks any failed search request: network failure, non-success
// status, or an unreadable body. Zero results are never an ErrFetch.
var ErrFetch = errors.New("fetch failed")

const releaseDateLayout = "2006-01-02"

// Searcher returns the movies matching a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Movie, error)
}

// Movie is a single search result in provider-neutral form.
type Movie struct {
	ID            int64    `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	OriginalTitle string   `json:"original_title,omitempty" yaml:"original_title,omitempty"`
	Overview      string   `json:"overview,omitempty" yaml:"overview,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Language      string   `json:"language,omitempty" yaml:"language,omitempty"`
	PosterURL     string   `json:"poster_url,omitempty" yaml:"poster_url,omitempty"`
	BackdropURL   string   `json:"backdrop_url,omitempty" yaml:"backdrop_url,omitempty"`
	VoteAverage   float64  `json:"vote_average" yaml:"vote_average"`
	VoteCount     int      `json:"vote_count" yaml:"vote_count"`
	Popularity    float64  `json:"popularity,omitempty" yaml:"popularity,omitempty"`
	Adult         bool     `json:"adult,omitempty" yaml:"adult,omitempty"`
	Genres        []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Runtime       int      `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	Source        string   `json:"source" yaml:"source"`
}

// Released parses ReleaseDate. The zero time is returned when it is missing
// or malformed.
func (m Movie) Released() time.Time {
	value := strings.TrimSpace(m.ReleaseDate)
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(releaseDateLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the release year, or 0 when unknown.
func (m Movie) Year() int {
	if t := m.Released(); !t.IsZero() {
		return t.Year()
	}
	return 0
}

// DisplayTitle renders "Title (Year)", dropping the year when unknown.
func (m Movie) DisplayTitle() string {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = strings.TrimSpace(m.OriginalTitle)
	}
	if title == "" {
		title = "Untitled"
	}
	if year := m.Year(); year > 0 {
		return fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}

// Rating formats the vote average with one decimal, or "n/a" without votes.
func (m Movie) Rating() string {
	if m.VoteCount == 0 && m.VoteAverage == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// Clone returns a copy that shares no slices with m.
func Clone(movies []Movie) []Movie {
	if len(movies) == 0 {
		return nil
	}
	dup := make([]Movie, len(movies))
	copy(dup, movies)
	for i := range dup {
		if len(dup[i].Genres) > 0 {
			dup[i].Genres = append([]string(nil), dup[i].Genres...)
		}
	}
	return dup
}
