package tmdb

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates TMDB has no movie with the requested id.
var ErrNotFound = errors.New("movie not found on TMDB")

// ErrMissingAPIKey indicates no TMDB API key is configured.
var ErrMissingAPIKey = errors.New("TMDB API key is not configured")

// ErrInvalidAPIKey indicates TMDB rejected the configured API key.
var ErrInvalidAPIKey = errors.New("invalid TMDB API key")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("TMDB API rate limit exceeded")

// ServerError represents an unexpected non-2xx response from TMDB
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("TMDB server error: HTTP %d", e.StatusCode)
}
