package crawler

import (
	"time"

	"github.com/google/uuid"

	"wikipath/internal/logger"
)

// RetryPolicy bounds how often a worker retries a transient fetch failure.
type RetryPolicy struct {
	// MaxAttempts includes the first attempt; values below 1 mean 1.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// PoolConfig sizes the worker pool.
type PoolConfig struct {
	Workers   int
	QueueSize int
	Retry     RetryPolicy
	// FetchTimeout bounds a single attempt; zero disables the bound.
	FetchTimeout time.Duration
}

// DefaultPoolConfig mirrors the CLI defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:   8,
		QueueSize: 16,
		Retry: RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   200 * time.Millisecond,
			MaxDelay:    2 * time.Second,
		},
		FetchTimeout: 30 * time.Second,
	}
}

func (c PoolConfig) normalized() PoolConfig {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.QueueSize < 1 {
		c.QueueSize = 2 * c.Workers
	}
	if c.Retry.MaxAttempts < 1 {
		c.Retry.MaxAttempts = 1
	}
	if c.Retry.MaxDelay > 0 && c.Retry.BaseDelay > c.Retry.MaxDelay {
		c.Retry.BaseDelay = c.Retry.MaxDelay
	}
	return c
}

type options struct {
	pool         PoolConfig
	logger       logger.Logger
	observers    []Observer
	newSessionID func() string
}

// Option configures a Searcher.
type Option func(*options)

func WithPoolConfig(cfg PoolConfig) Option {
	return func(o *options) {
		o.pool = cfg
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver adds an observer; observers are called in the order added.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithSessionIDs overrides how session IDs are generated.
func WithSessionIDs(fn func() string) Option {
	return func(o *options) {
		o.newSessionID = fn
	}
}

func defaultOptions() options {
	return options{
		pool:         DefaultPoolConfig(),
		logger:       logger.NewNoopLogger(),
		newSessionID: uuid.NewString,
	}
}
