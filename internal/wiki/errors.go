package wiki

import (
	"errors"
	"fmt"
	"strings"

	"wikipath/internal/models"
)

var (
	// ErrConfig marks failures that stop the tool before any search starts:
	// unreadable credentials, a rejected login, or an unreachable API.
	ErrConfig = errors.New("configuration error")
	// ErrTitleNotFound means a title search returned no articles.
	ErrTitleNotFound = errors.New("no article matches title")
)

// FetchError is the error type FetchLinks returns.
type FetchError = models.FetchError

// APIError is an error object returned in a MediaWiki API response body.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki api error %s: %s", e.Code, e.Info)
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// AmbiguousTitleError is returned by ResolveTitle when the input is not an
// exact article title but the search produced candidates.
type AmbiguousTitleError struct {
	Input       string
	Suggestions []models.Title
}

func (e *AmbiguousTitleError) Error() string {
	names := make([]string, len(e.Suggestions))
	for i, s := range e.Suggestions {
		names[i] = s.String()
	}
	return fmt.Sprintf("no article titled %q, did you mean: %s", e.Input, strings.Join(names, ", "))
}

// classify maps a request error onto a failure kind. Throttling is
// RateLimited; everything else reaching this point is a network failure.
func classify(err error) models.FailureKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "ratelimited", "maxlag":
			return models.FailureRateLimited
		}
		return models.FailureNetwork
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == 429 {
		return models.FailureRateLimited
	}
	return models.FailureNetwork
}
