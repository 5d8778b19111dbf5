package crawler

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"wikipath/internal/logger"
	"wikipath/internal/models"
	"wikipath/internal/telemetry"
)

// Pool runs a fixed set of fetch workers. Workers read jobs from a bounded
// queue and write results to the results channel; they never see search
// state.
type Pool struct {
	fetcher LinkFetcher
	cfg     PoolConfig
	logger  logger.Logger

	jobs    chan models.FetchJob
	results chan models.FetchResult

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

// NewPool starts cfg.Workers workers that live until ctx is done or Close
// is called.
func NewPool(ctx context.Context, fetcher LinkFetcher, cfg PoolConfig, log logger.Logger) *Pool {
	cfg = cfg.normalized()
	if log == nil {
		log = logger.NewNoopLogger()
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  log,
		jobs:    make(chan models.FetchJob, cfg.QueueSize),
		results: make(chan models.FetchResult, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Go(p.work)
	}
	return p
}

// Queue is the send side of the bounded job queue. Sends block while the
// queue is full.
func (p *Pool) Queue() chan<- models.FetchJob {
	return p.jobs
}

// Submit is the blocking entry point for callers outside a Session, which
// selects on Queue directly so it can keep draining Results. It enqueues
// job, blocking while the queue is full, and returns false if ctx or the
// pool is done first.
func (p *Pool) Submit(ctx context.Context, job models.FetchJob) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Results delivers one result per job taken from the queue.
func (p *Pool) Results() <-chan models.FetchResult {
	return p.results
}

// Close stops the workers. Queued jobs are dropped. Fetches already in
// flight run to completion but their results are discarded; Close does not
// wait for them.
func (p *Pool) Close() {
	p.cancel()
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) work() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			if p.ctx.Err() != nil {
				return
			}
			res := p.process(job)
			select {
			case <-p.ctx.Done():
				return
			case p.results <- res:
			}
		}
	}
}

func (p *Pool) process(job models.FetchJob) models.FetchResult {
	telemetry.WorkerBusy(1)
	defer telemetry.WorkerBusy(-1)

	links, attempts, err := p.fetchWithRetry(job)
	res := models.FetchResult{
		Title:    job.Title,
		Depth:    job.Depth,
		Attempts: attempts,
	}
	if err != nil {
		res.Failure = models.FailureKindOf(err)
		res.Err = err
		if p.ctx.Err() == nil {
			telemetry.FetchFailed(res.Failure)
		}
		return res
	}
	res.Links = links
	return res
}

// fetchWithRetry retries transient failures with exponential backoff until
// MaxAttempts is reached. Not-found titles are never retried.
func (p *Pool) fetchWithRetry(job models.FetchJob) ([]models.Title, int, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = p.cfg.Retry.BaseDelay
	if p.cfg.Retry.MaxDelay > 0 {
		policy.MaxInterval = p.cfg.Retry.MaxDelay
	}
	policy.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(p.cfg.Retry.MaxAttempts-1)), p.ctx)

	var links []models.Title
	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		got, err := p.attempt(job.Title)
		if err != nil {
			if !models.FailureKindOf(err).Transient() {
				return backoff.Permanent(err)
			}
			return err
		}
		links = got
		return nil
	}, b, func(err error, wait time.Duration) {
		telemetry.FetchRetried()
		p.logger.Debug("retrying fetch",
			zap.String("session_id", job.SessionID),
			zap.String("title", job.Title.String()),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	return links, attempts, err
}

// attempt runs one fetch. The fetch is detached from pool cancellation so an
// in-flight request is never cut off; only FetchTimeout bounds it.
func (p *Pool) attempt(title models.Title) ([]models.Title, error) {
	ctx := context.WithoutCancel(p.ctx)
	if p.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.FetchTimeout)
		defer cancel()
	}
	start := time.Now()
	links, err := p.fetcher.FetchLinks(ctx, title)
	telemetry.ObserveFetch(time.Since(start), models.FailureKindOf(err))
	return links, err
}
