package crawler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wikipath/internal/logger"
	"wikipath/internal/models"
	"wikipath/internal/telemetry"
)

// Outcome is the terminal state of a completed search.
type Outcome string

const (
	OutcomeFound         Outcome = "found"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeDepthExceeded Outcome = "depth_exceeded"
)

// Result describes a finished search session.
type Result struct {
	SessionID string
	Start     models.Title
	Target    models.Title
	Outcome   Outcome
	// Path runs from Start to Target; empty unless Outcome is found.
	Path     []models.Title
	MaxDepth int
	// Depth is the number of layers expanded.
	Depth      int
	Visited    int
	JobsIssued int
	// DeadEnds counts titles the source reported as missing.
	DeadEnds int
	// FetchFailures counts titles whose fetch failed after all retries.
	FetchFailures int
	Elapsed       time.Duration
}

// Err maps the outcome onto ErrNotFound or ErrDepthExceeded, or nil when a
// path was found.
func (r *Result) Err() error {
	switch r.Outcome {
	case OutcomeNotFound:
		return ErrNotFound
	case OutcomeDepthExceeded:
		return ErrDepthExceeded
	default:
		return nil
	}
}

// Session is the state of one search. It is owned by the goroutine calling
// Run: the visited set and the frontiers are never shared with workers.
type Session struct {
	id     string
	start  models.Title
	target models.Title

	// visited maps every discovered title to the title it was first
	// discovered from. The start maps to models.NoParent.
	visited  map[models.Title]models.Title
	frontier []models.Title
	next     []models.Title
	depth    int

	jobsIssued        int
	deadEnds          int
	transientFailures int
	used              bool

	// Outcome counts of the layer being expanded, reset by expand.
	layerFetched   int
	layerTransient int

	fetcher LinkFetcher
	opts    options
	logger  logger.Logger
}

func newSession(id string, start, target models.Title, fetcher LinkFetcher, opts options) (*Session, error) {
	if start == "" || target == "" {
		return nil, fmt.Errorf("%w: start and target titles are required", ErrInvalidInput)
	}
	return &Session{
		id:       id,
		start:    start,
		target:   target,
		visited:  map[models.Title]models.Title{start: models.NoParent},
		frontier: []models.Title{start},
		fetcher:  fetcher,
		opts:     opts,
		logger: opts.logger.With(
			zap.String("session_id", id),
			zap.String("start", start.String()),
			zap.String("target", target.String()),
		),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run drives the breadth-first search until the target is discovered, the
// frontier runs dry, or expanding another layer would discover titles
// farther than maxDepth links from the start. A start equal to the target
// yields a one-title path without fetching anything. A session runs once.
func (s *Session) Run(ctx context.Context, maxDepth int) (*Result, error) {
	if s.used {
		return nil, fmt.Errorf("%w: session %s already ran", ErrInvalidInput, s.id)
	}
	s.used = true
	started := time.Now()
	s.logger.Info("search started", zap.Int("max_depth", maxDepth))

	if s.start == s.target {
		return s.finish(OutcomeFound, []models.Title{s.start}, maxDepth, started), nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pool := NewPool(runCtx, s.fetcher, s.opts.pool, s.logger)
	defer pool.Close()

	for {
		if len(s.frontier) == 0 {
			res := s.finish(OutcomeNotFound, nil, maxDepth, started)
			if s.layerFetched == 0 && s.layerTransient > 0 {
				return res, fmt.Errorf("search %s: %w: every fetch at depth %d failed (%d transient failures)",
					s.id, ErrSourceUnavailable, s.depth-1, s.layerTransient)
			}
			return res, nil
		}
		if s.depth+1 > maxDepth {
			return s.finish(OutcomeDepthExceeded, nil, maxDepth, started), nil
		}

		found, err := s.expand(runCtx, pool)
		if err != nil {
			return nil, fmt.Errorf("search %s aborted at depth %d: %w", s.id, s.depth, err)
		}
		if found {
			// Outstanding jobs are abandoned; their results are never read.
			pool.Close()
			path, err := s.BuildPath(s.target)
			if err != nil {
				return nil, err
			}
			return s.finish(OutcomeFound, path, maxDepth, started), nil
		}

		s.logger.Debug("layer expanded",
			zap.Int("depth", s.depth),
			zap.Int("next_frontier", len(s.next)),
			zap.Int("visited", len(s.visited)),
		)
		s.frontier, s.next = s.next, nil
		s.depth++
	}
}

// expand issues one job per frontier title and applies results as they
// arrive. Dispatch and collection share one select so a full job queue
// never stalls result consumption. It returns true as soon as the target
// is discovered.
func (s *Session) expand(ctx context.Context, pool *Pool) (bool, error) {
	s.layerFetched, s.layerTransient = 0, 0
	pending := 0
	issued := 0
	for issued < len(s.frontier) || pending > 0 {
		var queue chan<- models.FetchJob
		var job models.FetchJob
		if issued < len(s.frontier) {
			queue = pool.Queue()
			job = models.FetchJob{
				SessionID: s.id,
				Title:     s.frontier[issued],
				Depth:     s.depth,
				CreatedAt: time.Now().UTC(),
			}
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case queue <- job:
			issued++
			pending++
			s.jobsIssued++
			telemetry.JobDispatched()
		case res := <-pool.Results():
			pending--
			if s.apply(ctx, res) {
				return true, nil
			}
		}
	}
	return false, nil
}

// apply folds one fetch result into the visited set. The first result to
// mention a title becomes its parent; later mentions are ignored.
func (s *Session) apply(ctx context.Context, res models.FetchResult) bool {
	if !res.OK() {
		s.recordFailure(ctx, res)
		return false
	}
	s.layerFetched++

	for _, link := range res.Links {
		if link == "" {
			continue
		}
		if _, seen := s.visited[link]; seen {
			continue
		}
		s.visited[link] = res.Title
		s.next = append(s.next, link)
		telemetry.TitleDiscovered()

		edge := models.Edge{SessionID: s.id, From: res.Title, To: link, Depth: s.depth + 1}
		for _, obs := range s.opts.observers {
			obs.LinkDiscovered(ctx, edge)
		}
		if link == s.target {
			s.logger.Info("target discovered", zap.String("via", res.Title.String()), zap.Int("depth", s.depth+1))
			return true
		}
	}
	return false
}

func (s *Session) recordFailure(ctx context.Context, res models.FetchResult) {
	if res.Failure == models.FailureNotFound {
		s.deadEnds++
		s.logger.Debug("title not found, treating as dead end", zap.String("title", res.Title.String()))
		return
	}

	s.transientFailures++
	s.layerTransient++
	s.logger.Warn("fetch failed, treating as dead end",
		zap.String("title", res.Title.String()),
		zap.String("kind", string(res.Failure)),
		zap.Int("attempts", res.Attempts),
		zap.Error(res.Err),
	)
	failure := models.FetchFailure{
		SessionID: s.id,
		Title:     res.Title,
		Depth:     res.Depth,
		Kind:      res.Failure,
		Attempts:  res.Attempts,
		FailedAt:  time.Now().UTC(),
	}
	if res.Err != nil {
		failure.Error = res.Err.Error()
	}
	for _, obs := range s.opts.observers {
		obs.FetchFailed(ctx, failure)
	}
}

func (s *Session) finish(outcome Outcome, path []models.Title, maxDepth int, started time.Time) *Result {
	res := &Result{
		SessionID:     s.id,
		Start:         s.start,
		Target:        s.target,
		Outcome:       outcome,
		Path:          path,
		MaxDepth:      maxDepth,
		Depth:         s.depth,
		Visited:       len(s.visited),
		JobsIssued:    s.jobsIssued,
		DeadEnds:      s.deadEnds,
		FetchFailures: s.transientFailures,
		Elapsed:       time.Since(started),
	}
	telemetry.SearchCompleted(string(outcome), res.Elapsed)
	s.logger.Info("search finished",
		zap.String("outcome", string(outcome)),
		zap.Int("path_length", len(path)),
		zap.Int("visited", res.Visited),
		zap.Int("jobs", res.JobsIssued),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}
