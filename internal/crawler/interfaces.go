package crawler

import (
	"context"

	"wikipath/internal/models"
)

// LinkFetcher resolves a title to its ordered outgoing link titles.
// Failures should be reported as *models.FetchError so the pool can tell
// dead ends from transient errors; any other error is treated as a
// network failure.
type LinkFetcher interface {
	FetchLinks(ctx context.Context, title models.Title) ([]models.Title, error)
}

// Observer is told about search progress by the coordinator. Calls happen
// on the coordinator goroutine, so implementations must return quickly and
// must not call back into the session.
type Observer interface {
	LinkDiscovered(ctx context.Context, edge models.Edge)
	FetchFailed(ctx context.Context, failure models.FetchFailure)
}

// LinkFetcherFunc adapts a function to LinkFetcher.
type LinkFetcherFunc func(ctx context.Context, title models.Title) ([]models.Title, error)

func (f LinkFetcherFunc) FetchLinks(ctx context.Context, title models.Title) ([]models.Title, error) {
	return f(ctx, title)
}
