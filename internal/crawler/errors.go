package crawler

import "errors"

var (
	// ErrInvalidInput is returned for empty titles or a reused session.
	ErrInvalidInput = errors.New("invalid search input")

	// ErrNotFound means the frontier ran dry before the target was seen.
	ErrNotFound = errors.New("no path: link graph exhausted")

	// ErrDepthExceeded means the depth bound stopped the search, not the graph.
	ErrDepthExceeded = errors.New("no path within depth bound")

	// ErrInvariantViolation signals a broken parent map. It is a bug, not a
	// search outcome.
	ErrInvariantViolation = errors.New("search invariant violated")

	// ErrSourceUnavailable is returned when the frontier runs dry after a
	// layer in which no fetch succeeded and at least one failed transiently.
	ErrSourceUnavailable = errors.New("link source unavailable")
)
