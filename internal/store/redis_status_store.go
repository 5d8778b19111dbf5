package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wikipath/internal/models"
)

// RedisClient is the subset of *redis.Client the store uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStatusStore stores search status in Redis.
type RedisStatusStore struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// NewRedisStatusStore initializes a Redis-backed StatusStore.
func NewRedisStatusStore(addr, prefix string, ttl time.Duration) *RedisStatusStore {
	return NewRedisStatusStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), prefix, ttl)
}

// NewRedisStatusStoreWithClient wraps an existing client (tests).
func NewRedisStatusStoreWithClient(client RedisClient, prefix string, ttl time.Duration) *RedisStatusStore {
	return &RedisStatusStore{client: client, prefix: prefix, ttl: ttl}
}

// Close closes the Redis client.
func (s *RedisStatusStore) Close() error {
	return s.client.Close()
}

// Ping checks that Redis is reachable.
func (s *RedisStatusStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SetStatus writes the status record to Redis, stamping UpdatedAt.
func (s *RedisStatusStore) SetStatus(ctx context.Context, status models.SearchStatus) error {
	if status.SessionID == "" {
		return errors.New("status has no session id")
	}
	status.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(status.SessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store status %s: %w", status.SessionID, err)
	}
	return nil
}

// GetStatus reads the status record from Redis. A missing key is reported
// as found == false with no error.
func (s *RedisStatusStore) GetStatus(ctx context.Context, sessionID string) (models.SearchStatus, bool, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.SearchStatus{}, false, nil
		}
		return models.SearchStatus{}, false, err
	}

	var status models.SearchStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return models.SearchStatus{}, false, fmt.Errorf("decode status %s: %w", sessionID, err)
	}

	return status, true, nil
}

func (s *RedisStatusStore) key(sessionID string) string {
	return s.prefix + sessionID
}
