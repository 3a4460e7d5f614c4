package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/five82/marquee/internal/movie"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234/3/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "/3" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatalf("NewClient returned nil error, want missing credentials error")
	}
	if _, err := NewClient(Options{APIKey: "  "}); err == nil {
		t.Fatalf("NewClient returned nil error for blank key, want error")
	}
}

func TestClient_SearchEncodesQueryAndMapsResults(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery url.Values
	var gotAuth, gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Page: 1,
			Results: []MovieSummary{
				{ID: 268, Title: "Batman", ReleaseDate: "1989-06-23", PosterPath: "/poster.jpg", VoteAverage: 7.2, VoteCount: 8000, GenreIDs: []int{14, 28, 424242}},
				{ID: 272, Title: "Batman Begins", ReleaseDate: "2005-06-10"},
			},
			TotalPages:   1,
			TotalResults: 2,
		})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL + "/3", Token: "secret", ImageBaseURL: "https://img.test/w500/"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	movies, err := c.Search(ctx, "  the dark knight ")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if gotPath != "/3/search/movie" {
		t.Fatalf("path = %q, want /3/search/movie", gotPath)
	}
	if gotQuery.Get("query") != "the dark knight" ||
		gotQuery.Get("include_adult") != "false" ||
		gotQuery.Get("language") != DefaultLanguage ||
		gotQuery.Get("page") != "1" {
		t.Fatalf("query = %v, want params encoded", gotQuery)
	}
	if gotQuery.Has("api_key") {
		t.Fatalf("api_key sent alongside bearer token: %v", gotQuery)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if !strings.HasPrefix(gotUserAgent, "marquee/") {
		t.Fatalf("User-Agent = %q, want marquee/*", gotUserAgent)
	}

	if len(movies) != 2 {
		t.Fatalf("Search returned %d movies, want 2", len(movies))
	}
	first := movies[0]
	if first.ID != 268 || first.Title != "Batman" || first.Source != SourceName {
		t.Fatalf("first movie = %#v, want Batman from tmdb", first)
	}
	if first.PosterURL != "https://img.test/w500/poster.jpg" {
		t.Fatalf("PosterURL = %q, want resolved against image base", first.PosterURL)
	}
	if movies[1].PosterURL != "" {
		t.Fatalf("PosterURL = %q, want empty for missing poster", movies[1].PosterURL)
	}
	if len(first.Genres) != 2 || first.Genres[0] != "Fantasy" || first.Genres[1] != "Action" {
		t.Fatalf("Genres = %v, want [Fantasy Action]", first.Genres)
	}
}

func TestClient_APIKeyAuthUsesQueryParam(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":0,"total_results":0}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL, APIKey: "v3key", Language: "de-DE", IncludeAdult: true})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	movies, err := c.Search(context.Background(), "zzzzznotfound")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("Search returned %d movies, want 0", len(movies))
	}
	if gotQuery.Get("api_key") != "v3key" || gotQuery.Get("language") != "de-DE" || gotQuery.Get("include_adult") != "true" {
		t.Fatalf("query = %v, want api_key, language and include_adult", gotQuery)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty for api key auth", gotAuth)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "unauthorized":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key.","success":false}`))
		case "broken":
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(Options{BaseURL: server.URL, Token: "t"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.Search(context.Background(), "unauthorized")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Search error = %v, want *APIError", err)
	}
	if !apiErr.IsUnauthorized() || apiErr.Code != 7 || !strings.Contains(apiErr.Message, "Invalid API key") {
		t.Fatalf("APIError = %#v, want 401 with status_message", apiErr)
	}
	if !errors.Is(err, movie.ErrFetch) {
		t.Fatalf("Search error = %v, want it to wrap movie.ErrFetch", err)
	}

	_, err = c.Search(context.Background(), "server")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") || !errors.Is(err, movie.ErrFetch) {
		t.Fatalf("Search error = %v, want status 500 fetch error", err)
	}

	_, err = c.Search(context.Background(), "broken")
	if err == nil || !strings.Contains(err.Error(), "decode response") || !errors.Is(err, movie.ErrFetch) {
		t.Fatalf("Search error = %v, want decode response fetch error", err)
	}
}

func TestClient_NetworkFailureWrapsErrFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	c, err := NewClient(Options{BaseURL: base, Token: "t", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Search(context.Background(), "batman")
	if err == nil || !errors.Is(err, movie.ErrFetch) {
		t.Fatalf("Search error = %v, want movie.ErrFetch", err)
	}
	if !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("Search error = %q, want it to mention execute request", err.Error())
	}
}

func TestClient_SearchRejectsEmptyQuery(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "127.0.0.1:1", Token: "t"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Search(context.Background(), "   "); err == nil {
		t.Fatalf("Search returned nil error, want empty query error")
	}
}
