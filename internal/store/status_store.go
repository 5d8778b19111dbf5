package store

import (
	"context"

	"wikipath/internal/models"
)

// StatusStore persists search session status.
type StatusStore interface {
	SetStatus(ctx context.Context, status models.SearchStatus) error
	GetStatus(ctx context.Context, sessionID string) (models.SearchStatus, bool, error)
}
