package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"wikipath/internal/models"
)

type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failing error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return redis.NewStatusResult("", f.failing)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing != nil {
		return redis.NewStringResult("", f.failing)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.failing)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisStatusStoreRoundTrip(t *testing.T) {
	client := newFakeRedis()
	st := NewRedisStatusStoreWithClient(client, "wikipath:search:", time.Hour)
	ctx := context.Background()

	status := models.SearchStatus{
		SessionID: "abc",
		Start:     "Go",
		Target:    "Rust",
		MaxDepth:  4,
		Status:    models.SearchFound,
		Path:      []models.Title{"Go", "Systems programming", "Rust"},
		Visited:   120,
	}
	require.NoError(t, st.SetStatus(ctx, status))
	require.Contains(t, client.data, "wikipath:search:abc")
	require.Equal(t, time.Hour, client.ttls["wikipath:search:abc"])

	got, ok, err := st.GetStatus(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, status.Path, got.Path)
	require.Equal(t, models.SearchFound, got.Status)
	require.False(t, got.UpdatedAt.IsZero())
}

func TestRedisStatusStoreMissingKey(t *testing.T) {
	st := NewRedisStatusStoreWithClient(newFakeRedis(), "p:", time.Minute)

	_, ok, err := st.GetStatus(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStatusStoreErrors(t *testing.T) {
	client := newFakeRedis()
	st := NewRedisStatusStoreWithClient(client, "p:", time.Minute)
	ctx := context.Background()

	require.Error(t, st.SetStatus(ctx, models.SearchStatus{}))

	client.data["p:bad"] = "{not json"
	_, _, err := st.GetStatus(ctx, "bad")
	require.Error(t, err)

	client.failing = errors.New("connection refused")
	require.Error(t, st.SetStatus(ctx, models.SearchStatus{SessionID: "x"}))
	_, _, err = st.GetStatus(ctx, "x")
	require.Error(t, err)
	require.Error(t, st.Ping(ctx))

	require.NoError(t, st.Close())
	require.True(t, client.closed)
}
