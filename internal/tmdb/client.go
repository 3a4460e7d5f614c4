package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/marquee/internal/movie"
)

// Ensure Client implements movie.Searcher at compile time.
var _ movie.Searcher = (*Client)(nil)

// SourceName tags movies produced by this package.
const SourceName = "tmdb"

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	DefaultLanguage     = "en-US"
	defaultUserAgent    = "marquee/0.1"
	requestTimeout      = 10 * time.Second
	maxErrorBody        = 64 << 10
)

// Options configure a Client. Token (v4 read access token) takes precedence
// over APIKey (v3 key) when both are set.
type Options struct {
	BaseURL      string
	ImageBaseURL string
	Token        string
	APIKey       string
	Language     string
	IncludeAdult bool
	Timeout      time.Duration
	UserAgent    string
	HTTPClient   *http.Client
}

// Client talks to the TMDB v3 HTTP API.
type Client struct {
	baseURL      *url.URL
	imageBaseURL string
	http         *http.Client
	token        string
	apiKey       string
	language     string
	includeAdult bool
	userAgent    string
}

// NewClient builds a Client from opts, filling defaults for empty fields.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(opts.Token)
	apiKey := strings.TrimSpace(opts.APIKey)
	if token == "" && apiKey == "" {
		return nil, fmt.Errorf("tmdb token or api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:      base,
		imageBaseURL: firstNonEmpty(opts.ImageBaseURL, DefaultImageBaseURL),
		http:         httpClient,
		token:        token,
		apiKey:       apiKey,
		language:     firstNonEmpty(opts.Language, DefaultLanguage),
		includeAdult: opts.IncludeAdult,
		userAgent:    firstNonEmpty(opts.UserAgent, defaultUserAgent),
	}
	return c, nil
}

// Search returns the first page of movies matching query.
func (c *Client) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	page, err := c.SearchPage(ctx, query)
	if err != nil {
		return nil, err
	}
	movies := make([]movie.Movie, 0, len(page.Results))
	for _, summary := range page.Results {
		movies = append(movies, summary.toMovie(c.imageBaseURL))
	}
	return movies, nil
}

// SearchPage performs GET /search/movie for the first page of results.
func (c *Client) SearchPage(ctx context.Context, query string) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("client is nil")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResponse{}, fmt.Errorf("query is empty")
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("include_adult", strconv.FormatBool(c.includeAdult))
	values.Set("language", c.language)
	values.Set("page", "1")

	var payload SearchResponse
	if err := c.get(ctx, []string{"search", "movie"}, values, &payload); err != nil {
		return SearchResponse{}, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, segments []string, values url.Values, dest any) error {
	if c.token == "" {
		values.Set("api_key", c.apiKey)
	}
	reqURL := c.baseURL.JoinPath(segments...)
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w: %w", movie.ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w: %w", movie.ErrFetch, err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", raw, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
