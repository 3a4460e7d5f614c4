// Package tmdb provides an HTTP client for The Movie Database search API.
//
// # Overview
//
// The client issues a single GET request per search:
//
//	GET {base_url}/search/movie?query=...&include_adult=false&language=en-US&page=1
//
// and converts the first result page into provider-neutral movie.Movie
// values. There is no retry, pagination or caching: each call is one
// best-effort request.
//
// # Authentication
//
// TMDB accepts either a v4 read access token or a v3 API key:
//
//   - Token: sent as "Authorization: Bearer <token>"
//   - APIKey: sent as the api_key query parameter
//
// When both are configured the token wins.
//
// # Images
//
// TMDB returns relative poster and backdrop paths such as "/abc.jpg". They are
// resolved against ImageBaseURL (default https://image.tmdb.org/t/p/w500) so
// callers always see absolute URLs.
//
// # Error Handling
//
// Every failure wraps movie.ErrFetch:
//
//   - Network failures: "execute request: fetch failed: ..."
//   - Status >= 400: *APIError with the status_message TMDB puts in its
//     error envelope
//   - Malformed JSON: "decode response: fetch failed: ..."
//
// An empty result list is not an error.
//
// # Usage Example
//
//	client, err := tmdb.NewClient(tmdb.Options{Token: cfg.TMDB.Token})
//	if err != nil {
//		return err
//	}
//	movies, err := client.Search(ctx, "batman")
package tmdb
