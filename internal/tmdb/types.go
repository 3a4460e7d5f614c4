package tmdb

import (
	"strings"

	"github.com/five82/marquee/internal/movie"
)

// SearchResponse mirrors the payload returned by /search/movie.
type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// MovieSummary is one entry of a search result page.
type MovieSummary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genre_ids"`
}

// genreNames covers TMDB's fixed movie genre list.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// toMovie converts a summary, resolving image paths against imageBase.
func (s MovieSummary) toMovie(imageBase string) movie.Movie {
	m := movie.Movie{
		ID:            s.ID,
		Title:         strings.TrimSpace(s.Title),
		OriginalTitle: strings.TrimSpace(s.OriginalTitle),
		Overview:      strings.TrimSpace(s.Overview),
		ReleaseDate:   strings.TrimSpace(s.ReleaseDate),
		Language:      s.OriginalLanguage,
		PosterURL:     imageURL(imageBase, s.PosterPath),
		BackdropURL:   imageURL(imageBase, s.BackdropPath),
		VoteAverage:   s.VoteAverage,
		VoteCount:     s.VoteCount,
		Popularity:    s.Popularity,
		Adult:         s.Adult,
		Source:        SourceName,
	}
	for _, id := range s.GenreIDs {
		if name, ok := genreNames[id]; ok {
			m.Genres = append(m.Genres, name)
		}
	}
	return m
}

func imageURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
