package tmdb

import (
	"fmt"
	"net/http"

	"github.com/buger/jsonparser"

	"github.com/five82/marquee/internal/movie"
)

// APIError is a non-success response from the TMDB API.
type APIError struct {
	StatusCode int
	Code       int64
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tmdb api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb api returned status %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies every API error as a failed fetch.
func (e *APIError) Unwrap() error {
	return movie.ErrFetch
}

// IsUnauthorized reports a rejected token or API key.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// newAPIError pulls status_code/status_message out of an error body. Bodies
// that are not TMDB's error envelope leave the message empty.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if msg, err := jsonparser.GetString(body, "status_message"); err == nil {
		apiErr.Message = msg
	}
	if code, err := jsonparser.GetInt(body, "status_code"); err == nil {
		apiErr.Code = code
	}
	return apiErr
}
