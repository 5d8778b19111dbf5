package store

import (
	"context"
	"errors"
	"time"

	"github.com/Yiling-J/theine-go"

	"wikipath/internal/models"
)

// MemoryStatusStore keeps status records in a bounded in-process cache.
// It backs the HTTP API when no Redis address is configured.
type MemoryStatusStore struct {
	cache *theine.Cache[string, models.SearchStatus]
	ttl   time.Duration
}

// NewMemoryStatusStore holds at most maxEntries records, each for ttl.
func NewMemoryStatusStore(maxEntries int64, ttl time.Duration) (*MemoryStatusStore, error) {
	cache, err := theine.NewBuilder[string, models.SearchStatus](maxEntries).Build()
	if err != nil {
		return nil, err
	}
	return &MemoryStatusStore{cache: cache, ttl: ttl}, nil
}

func (s *MemoryStatusStore) SetStatus(_ context.Context, status models.SearchStatus) error {
	if status.SessionID == "" {
		return errors.New("status has no session id")
	}
	status.UpdatedAt = time.Now().UTC()
	status.Path = append([]models.Title(nil), status.Path...)
	if s.ttl > 0 {
		s.cache.SetWithTTL(status.SessionID, status, 1, s.ttl)
	} else {
		s.cache.Set(status.SessionID, status, 1)
	}
	return nil
}

func (s *MemoryStatusStore) GetStatus(_ context.Context, sessionID string) (models.SearchStatus, bool, error) {
	status, ok := s.cache.Get(sessionID)
	return status, ok, nil
}

func (s *MemoryStatusStore) Close() error {
	s.cache.Close()
	return nil
}
