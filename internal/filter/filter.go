// Package filter narrows search results with expr-lang expressions such as
//
//	Year >= 2000 && Rating > 7
//	icontains(Title, "dark") || "Action" in Genres
//
// The built-in string operators work too: lower(Title) contains "dark".
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/five82/marquee/internal/movie"
)

// Filter is a compiled boolean expression over movie fields.
type Filter struct {
	program *vm.Program
	expr    string
}

// Compile type-checks expression against the movie environment.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	program, err := expr.Compile(expression, expr.Env(env(movie.Movie{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter expression: %w", err)
	}
	return &Filter{program: program, expr: expression}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match reports whether m satisfies the filter.
func (f *Filter) Match(m movie.Movie) (bool, error) {
	out, err := expr.Run(f.program, env(m))
	if err != nil {
		return false, fmt.Errorf("evaluate filter for %q: %w", m.Title, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, want bool", out)
	}
	return matched, nil
}

// Apply returns the movies that match, preserving order.
func (f *Filter) Apply(movies []movie.Movie) ([]movie.Movie, error) {
	if f == nil {
		return movies, nil
	}
	kept := make([]movie.Movie, 0, len(movies))
	for _, m := range movies {
		ok, err := f.Match(m)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

func env(m movie.Movie) map[string]any {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return map[string]any{
		"ID":            m.ID,
		"Title":         m.Title,
		"OriginalTitle": m.OriginalTitle,
		"Overview":      m.Overview,
		"Year":          m.Year(),
		"ReleaseDate":   m.ReleaseDate,
		"Language":      m.Language,
		"Rating":        m.VoteAverage,
		"Votes":         m.VoteCount,
		"Popularity":    m.Popularity,
		"Adult":         m.Adult,
		"Genres":        genres,
		"Runtime":       m.Runtime,
		"Source":        m.Source,
		"HasPoster":     m.PosterURL != "",

		"icontains": func(s, sub string) bool {
			return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
		},
	}
}
