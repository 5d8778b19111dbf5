package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"wikipath/internal/crawler"
	"wikipath/internal/logger"
	"wikipath/internal/models"
	"wikipath/internal/store"
)

type pathWriter interface {
	WritePath(ctx context.Context, sessionID string, path []models.Title) error
}

// runner executes searches and keeps the status store and path graph up to
// date. status and paths may be nil.
type runner struct {
	fetcher  crawler.LinkFetcher
	options  []crawler.Option
	status   store.StatusStore
	paths    pathWriter
	maxDepth int
	timeout  time.Duration
	log      logger.Logger
}

// begin creates a session and records it as queued. maxDepth < 0 selects
// the configured bound.
func (r *runner) begin(ctx context.Context, start, target models.Title, maxDepth int, extra ...crawler.Option) (*crawler.Session, models.SearchStatus, error) {
	if maxDepth < 0 {
		maxDepth = r.maxDepth
	}
	opts := append(slices.Clone(r.options), extra...)
	session, err := crawler.NewSearcher(r.fetcher, opts...).NewSession(start, target)
	if err != nil {
		return nil, models.SearchStatus{}, err
	}

	status := models.SearchStatus{
		SessionID: session.ID(),
		Start:     start,
		Target:    target,
		MaxDepth:  maxDepth,
		Status:    models.SearchQueued,
		CreatedAt: time.Now().UTC(),
	}
	if r.status != nil {
		if err := r.status.SetStatus(ctx, status); err != nil {
			return nil, models.SearchStatus{}, fmt.Errorf("record search %s: %w", status.SessionID, err)
		}
	}
	return session, status, nil
}

// execute runs session to completion. Status and path writes after the run
// are detached from ctx so an aborted search is still recorded.
func (r *runner) execute(ctx context.Context, session *crawler.Session, status models.SearchStatus) (*crawler.Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	status.Status = models.SearchRunning
	r.saveStatus(ctx, status)

	res, err := session.Run(ctx, status.MaxDepth)

	detached := context.WithoutCancel(ctx)
	r.saveStatus(detached, statusFromResult(status, res, err))
	if err == nil && res.Outcome == crawler.OutcomeFound && r.paths != nil {
		if werr := r.paths.WritePath(detached, res.SessionID, res.Path); werr != nil {
			r.log.Warn("path write failed", zap.String("session_id", res.SessionID), zap.Error(werr))
		}
	}
	return res, err
}

// search runs one session from start to finish.
func (r *runner) search(ctx context.Context, start, target models.Title, extra ...crawler.Option) (*crawler.Result, error) {
	session, status, err := r.begin(ctx, start, target, -1, extra...)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, session, status)
}

func (r *runner) saveStatus(ctx context.Context, status models.SearchStatus) {
	if r.status == nil {
		return
	}
	if err := r.status.SetStatus(ctx, status); err != nil {
		r.log.Warn("status write failed",
			zap.String("session_id", status.SessionID),
			zap.String("status", string(status.Status)),
			zap.Error(err),
		)
	}
}

func statusFromResult(status models.SearchStatus, res *crawler.Result, err error) models.SearchStatus {
	if res != nil {
		status.Visited = res.Visited
		status.Path = res.Path
	}
	if err != nil {
		status.Status = models.SearchFailed
		status.Error = err.Error()
		return status
	}
	switch res.Outcome {
	case crawler.OutcomeFound:
		status.Status = models.SearchFound
	case crawler.OutcomeDepthExceeded:
		status.Status = models.SearchDepthExceeded
	default:
		status.Status = models.SearchNotFound
	}
	return status
}
