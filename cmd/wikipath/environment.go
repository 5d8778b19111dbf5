package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"wikipath/internal/config"
	"wikipath/internal/crawler"
	"wikipath/internal/graph"
	"wikipath/internal/kafka"
	"wikipath/internal/logger"
	"wikipath/internal/store"
	"wikipath/internal/wiki"
)

// environment is what every command builds from configuration.
type environment struct {
	cfg *config.Config
	log logger.Logger
}

// loadEnvironment reads configuration. A positional argument replaces the
// API address.
func loadEnvironment(v *viper.Viper, args []string) (*environment, error) {
	if len(args) == 1 {
		v.Set("apiURL", args[0])
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	return &environment{cfg: cfg, log: log}, nil
}

func (e *environment) wikiClient() (*wiki.Client, error) {
	return wiki.NewClient(e.cfg.APIURL,
		wiki.WithRateLimit(e.cfg.Search.RequestsPerSecond, e.cfg.Search.Burst),
		wiki.WithLogger(e.log.With(zap.String("component", "wiki"))),
	)
}

// connect loads the bot credentials, checks the API answers, and logs in.
func (e *environment) connect(ctx context.Context, out io.Writer) (*wiki.Client, error) {
	creds, err := wiki.LoadCredentials(e.cfg.SecretsFile)
	if err != nil {
		return nil, err
	}
	client, err := e.wikiClient()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Opening api connection and logging in...")
	site, err := client.Ping(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, creds); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Logged in to %s as '%s'\n", site, creds.Username)
	return client, nil
}

func (e *environment) poolConfig() crawler.PoolConfig {
	s := e.cfg.Search
	return crawler.PoolConfig{
		Workers:   s.Workers,
		QueueSize: s.QueueSize,
		Retry: crawler.RetryPolicy{
			MaxAttempts: s.RetryAttempts,
			BaseDelay:   s.RetryBaseDelay,
			MaxDelay:    s.RetryMaxDelay,
		},
		FetchTimeout: s.FetchTimeout,
	}
}

// sinks are the optional destinations of search output. Each field is nil
// when its backend is not configured.
type sinks struct {
	publisher *kafka.Publisher
	status    store.StatusStore
	paths     pathWriter
	closers   []func() error
}

// openSinks connects to every configured backend. A configured backend
// that cannot be reached is an error.
func (e *environment) openSinks(ctx context.Context) (*sinks, error) {
	s := &sinks{}

	if k := e.cfg.Kafka; k.Broker != "" {
		pub := kafka.NewPublisher(k.Broker, k.EdgesTopic, k.DLQTopic, e.log.With(zap.String("component", "kafka")))
		s.publisher = pub
		s.closers = append(s.closers, pub.Close)
	}

	if r := e.cfg.Redis; r.Addr != "" {
		st := store.NewRedisStatusStore(r.Addr, r.Prefix, r.TTL)
		s.closers = append(s.closers, st.Close)
		if err := st.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%w: redis at %s: %w", config.ErrInvalid, r.Addr, err)
		}
		s.status = st
	}

	if n := e.cfg.Neo4j; n.URI != "" {
		driver, err := graph.NewDriver(n.URI, n.User, n.Password)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%w: neo4j at %s: %w", config.ErrInvalid, n.URI, err)
		}
		s.closers = append(s.closers, func() error { return driver.Close(context.Background()) })
		if err := driver.VerifyConnectivity(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%w: neo4j at %s: %w", config.ErrInvalid, n.URI, err)
		}
		s.paths = graph.NewPathWriter(driver, e.log.With(zap.String("component", "neo4j")))
	}

	return s, nil
}

func (s *sinks) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (e *environment) newRunner(fetcher crawler.LinkFetcher, s *sinks) *runner {
	opts := []crawler.Option{
		crawler.WithPoolConfig(e.poolConfig()),
		crawler.WithLogger(e.log.With(zap.String("component", "crawler"))),
	}
	if s.publisher != nil {
		opts = append(opts, crawler.WithObserver(s.publisher))
	}
	return &runner{
		fetcher:  fetcher,
		options:  opts,
		status:   s.status,
		paths:    s.paths,
		maxDepth: e.cfg.Search.MaxDepth,
		timeout:  e.cfg.Search.Timeout,
		log:      e.log,
	}
}
