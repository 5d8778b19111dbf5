package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"wikipath/internal/crawler"
	"wikipath/internal/logger"
	"wikipath/internal/models"
	"wikipath/mocks"
)

// mapFetcher serves links from an in-memory graph. Titles absent from the
// graph are reported as missing pages.
func mapFetcher(graph map[string][]string) crawler.LinkFetcher {
	return crawler.LinkFetcherFunc(func(_ context.Context, title models.Title) ([]models.Title, error) {
		links, ok := graph[title.String()]
		if !ok {
			return nil, models.NewFetchError(title, models.FailureNotFound, nil)
		}
		out := make([]models.Title, len(links))
		for i, l := range links {
			out[i] = models.Title(l)
		}
		return out, nil
	})
}

type recordingPathWriter struct {
	mu    sync.Mutex
	paths map[string][]models.Title
	err   error
}

func (w *recordingPathWriter) WritePath(_ context.Context, sessionID string, path []models.Title) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.paths == nil {
		w.paths = map[string][]models.Title{}
	}
	w.paths[sessionID] = path
	return w.err
}

func newTestRunner(fetcher crawler.LinkFetcher, status *mocks.MockStatusStore, paths pathWriter) *runner {
	r := &runner{
		fetcher: fetcher,
		options: []crawler.Option{
			crawler.WithPoolConfig(crawler.PoolConfig{
				Workers:   2,
				QueueSize: 2,
				Retry: crawler.RetryPolicy{
					MaxAttempts: 2,
					BaseDelay:   time.Millisecond,
					MaxDelay:    2 * time.Millisecond,
				},
				FetchTimeout: 5 * time.Second,
			}),
		},
		paths:    paths,
		maxDepth: 6,
		log:      logger.NewNoopLogger(),
	}
	if status != nil {
		r.status = status
	}
	return r
}

func recordStates(store *mocks.MockStatusStore, states *[]models.SearchStatus) {
	store.EXPECT().SetStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, s models.SearchStatus) error {
			*states = append(*states, s)
			return nil
		}).AnyTimes()
}

func TestRunnerSearchRecordsStatusAndPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStatusStore(ctrl)
	var states []models.SearchStatus
	recordStates(store, &states)
	paths := &recordingPathWriter{}

	r := newTestRunner(mapFetcher(testGraph), store, paths)
	res, err := r.search(context.Background(), "Finland", "Kebab")
	require.NoError(t, err)
	require.Equal(t, crawler.OutcomeFound, res.Outcome)

	require.Len(t, states, 3)
	require.Equal(t, models.SearchQueued, states[0].Status)
	require.Equal(t, models.SearchRunning, states[1].Status)
	require.Equal(t, models.SearchFound, states[2].Status)
	require.Equal(t, 6, states[2].MaxDepth)
	require.Equal(t, res.Path, states[2].Path)
	require.Equal(t, res.SessionID, states[0].SessionID)

	require.Equal(t, []models.Title{"Finland", "Sauna", "Steam", "Kebab"}, paths.paths[res.SessionID])
}

func TestRunnerSearchSkipsPathWhenNotFound(t *testing.T) {
	paths := &recordingPathWriter{}
	r := newTestRunner(mapFetcher(testGraph), nil, paths)

	res, err := r.search(context.Background(), "Helsinki", "Kebab")
	require.NoError(t, err)
	require.Equal(t, crawler.OutcomeNotFound, res.Outcome)
	require.Empty(t, paths.paths)
}

func TestRunnerPathWriteFailureIsNotFatal(t *testing.T) {
	paths := &recordingPathWriter{err: errors.New("neo4j down")}
	r := newTestRunner(mapFetcher(testGraph), nil, paths)

	res, err := r.search(context.Background(), "Finland", "Sauna")
	require.NoError(t, err)
	require.Equal(t, []models.Title{"Finland", "Sauna"}, res.Path)
}

func TestRunnerSourceUnavailableIsFailedStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStatusStore(ctrl)
	var states []models.SearchStatus
	recordStates(store, &states)

	throttled := crawler.LinkFetcherFunc(func(_ context.Context, title models.Title) ([]models.Title, error) {
		return nil, models.NewFetchError(title, models.FailureRateLimited, errors.New("429"))
	})
	r := newTestRunner(throttled, store, nil)

	_, err := r.search(context.Background(), "Finland", "Kebab")
	require.ErrorIs(t, err, crawler.ErrSourceUnavailable)

	final := states[len(states)-1]
	require.Equal(t, models.SearchFailed, final.Status)
	require.Contains(t, final.Error, "link source unavailable")
}

func TestRunnerBeginStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStatusStore(ctrl)
	store.EXPECT().SetStatus(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	r := newTestRunner(mapFetcher(testGraph), store, nil)
	_, err := r.search(context.Background(), "Finland", "Kebab")
	require.ErrorContains(t, err, "redis down")
}

func TestRunnerBeginDepth(t *testing.T) {
	r := newTestRunner(mapFetcher(testGraph), nil, nil)

	_, status, err := r.begin(context.Background(), "Finland", "Kebab", -1)
	require.NoError(t, err)
	require.Equal(t, 6, status.MaxDepth)
	require.Equal(t, models.SearchQueued, status.Status)

	_, status, err = r.begin(context.Background(), "Finland", "Kebab", 2)
	require.NoError(t, err)
	require.Equal(t, 2, status.MaxDepth)

	_, _, err = r.begin(context.Background(), "", "Kebab", -1)
	require.ErrorIs(t, err, crawler.ErrInvalidInput)
}

func TestStatusFromResult(t *testing.T) {
	base := models.SearchStatus{SessionID: "s1", Status: models.SearchRunning}
	path := []models.Title{"A", "B"}

	tests := []struct {
		name string
		res  *crawler.Result
		err  error
		want models.SearchState
	}{
		{"found", &crawler.Result{Outcome: crawler.OutcomeFound, Path: path, Visited: 5}, nil, models.SearchFound},
		{"not found", &crawler.Result{Outcome: crawler.OutcomeNotFound, Visited: 5}, nil, models.SearchNotFound},
		{"depth exceeded", &crawler.Result{Outcome: crawler.OutcomeDepthExceeded, Visited: 5}, nil, models.SearchDepthExceeded},
		{"aborted", nil, context.Canceled, models.SearchFailed},
		{"unavailable", &crawler.Result{Outcome: crawler.OutcomeNotFound, Visited: 1}, crawler.ErrSourceUnavailable, models.SearchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statusFromResult(base, tt.res, tt.err)
			if got.Status != tt.want {
				t.Fatalf("status = %s, want %s", got.Status, tt.want)
			}
			if got.SessionID != "s1" {
				t.Fatalf("session id = %q, want s1", got.SessionID)
			}
			if tt.err != nil && got.Error != tt.err.Error() {
				t.Fatalf("error = %q, want %q", got.Error, tt.err.Error())
			}
			if tt.res != nil && got.Visited != tt.res.Visited {
				t.Fatalf("visited = %d, want %d", got.Visited, tt.res.Visited)
			}
		})
	}
}
