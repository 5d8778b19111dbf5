package crawler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"wikipath/internal/models"
)

// graphFetcher serves links from an in-memory adjacency list and counts
// how often each title was fetched.
type graphFetcher struct {
	mu    sync.Mutex
	graph map[models.Title][]models.Title
	fail  map[models.Title]models.FailureKind
	block map[models.Title]chan struct{}
	calls map[models.Title]int
}

func newGraphFetcher(graph map[models.Title][]models.Title) *graphFetcher {
	return &graphFetcher{
		graph: graph,
		fail:  map[models.Title]models.FailureKind{},
		block: map[models.Title]chan struct{}{},
		calls: map[models.Title]int{},
	}
}

func (g *graphFetcher) FetchLinks(ctx context.Context, title models.Title) ([]models.Title, error) {
	g.mu.Lock()
	g.calls[title]++
	kind, failing := g.fail[title]
	release := g.block[title]
	links := slices.Clone(g.graph[title])
	g.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failing {
		return nil, models.NewFetchError(title, kind, errors.New("injected failure"))
	}
	return links, nil
}

func (g *graphFetcher) callCounts() map[models.Title]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[models.Title]int, len(g.calls))
	for k, v := range g.calls {
		out[k] = v
	}
	return out
}

// bfsDistances computes hop counts from start sequentially.
func bfsDistances(graph map[models.Title][]models.Title, start models.Title) map[models.Title]int {
	dist := map[models.Title]int{start: 0}
	queue := []models.Title{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range graph[cur] {
			if _, ok := dist[next]; ok {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

func randomGraph(seed uint64, nodes, maxOut int) map[models.Title][]models.Title {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	graph := make(map[models.Title][]models.Title, nodes)
	for i := 0; i < nodes; i++ {
		from := nodeName(i)
		n := r.IntN(maxOut + 1)
		for j := 0; j < n; j++ {
			graph[from] = append(graph[from], nodeName(r.IntN(nodes)))
		}
	}
	return graph
}

func nodeName(i int) models.Title {
	return models.Title(fmt.Sprintf("N%03d", i))
}

func titles(names ...string) []models.Title {
	out := make([]models.Title, len(names))
	for i, n := range names {
		out[i] = models.Title(n)
	}
	return out
}

func fastPool() PoolConfig {
	return PoolConfig{
		Workers:   4,
		QueueSize: 4,
		Retry: RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		},
		FetchTimeout: 5 * time.Second,
	}
}

// recordingObserver collects everything the coordinator reports.
type recordingObserver struct {
	mu       sync.Mutex
	edges    []models.Edge
	failures []models.FetchFailure
}

func (r *recordingObserver) LinkDiscovered(_ context.Context, edge models.Edge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = append(r.edges, edge)
}

func (r *recordingObserver) FetchFailed(_ context.Context, failure models.FetchFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure)
}
