package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wikipath/internal/crawler"
	"wikipath/internal/logger"
	"wikipath/internal/models"
	"wikipath/internal/store"
	"wikipath/internal/telemetry"
)

const memoryStoreEntries = 10_000

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [api-url]",
		Short: "Serve an HTTP API that runs searches in the background",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v, args)
		},
	}
}

func runServe(cmd *cobra.Command, v *viper.Viper, args []string) error {
	ctx := cmd.Context()

	env, err := loadEnvironment(v, args)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	client, err := env.connect(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	sinks, err := env.openSinks(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			env.log.Warn("closing sinks failed", zap.Error(err))
		}
	}()

	if sinks.status == nil {
		mem, err := store.NewMemoryStatusStore(memoryStoreEntries, env.cfg.Redis.TTL)
		if err != nil {
			return err
		}
		sinks.status = mem
		sinks.closers = append(sinks.closers, mem.Close)
		env.log.Info("no redis configured, keeping search status in memory")
	}

	srv := newServer(ctx, env.newRunner(client, sinks), sinks.status, env.log)
	httpServer := &http.Server{
		Addr:              env.cfg.HTTP.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		env.log.Info("api listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		srv.stop()
		return err
	})
	return g.Wait()
}

type server struct {
	runner *runner
	store  store.StatusStore
	log    logger.Logger

	// searches run under ctx so stop can abort them.
	ctx      context.Context
	cancel   context.CancelFunc
	searches conc.WaitGroup
}

func newServer(ctx context.Context, r *runner, st store.StatusStore, log logger.Logger) *server {
	ctx, cancel := context.WithCancel(ctx)
	return &server{runner: r, store: st, log: log, ctx: ctx, cancel: cancel}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/search/", s.handleSearchStatus)
	mux.Handle("/metrics", telemetry.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// stop aborts running searches and waits for them to record their status.
func (s *server) stop() {
	s.cancel()
	s.searches.Wait()
}

// handleSearch starts a search in the background.
//
// Method: POST
// Path:   /search?start=...&target=...[&maxDepth=N]
// Example:
//
//	curl -X POST "http://localhost:8080/search?start=Finland&target=Kebab"
func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	start := models.Title(strings.TrimSpace(q.Get("start")))
	target := models.Title(strings.TrimSpace(q.Get("target")))
	if start == "" || target == "" {
		http.Error(w, "missing start or target", http.StatusBadRequest)
		return
	}
	maxDepth := -1
	if raw := q.Get("maxDepth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid maxDepth", http.StatusBadRequest)
			return
		}
		maxDepth = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	session, status, err := s.runner.begin(ctx, start, target, maxDepth)
	if err != nil {
		if errors.Is(err, crawler.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to persist status", http.StatusBadGateway)
		return
	}

	s.searches.Go(func() {
		if _, err := s.runner.execute(s.ctx, session, status); err != nil {
			s.log.Warn("background search failed", zap.String("session_id", status.SessionID), zap.Error(err))
		}
	})

	writeJSON(w, status, http.StatusAccepted)
}

// handleSearchStatus returns the status of a search.
//
// Method: GET
// Path:   /search/{sessionID}
func (s *server) handleSearchStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/search/"), "/")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	status, ok, err := s.store.GetStatus(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "failed to load status", http.StatusBadGateway)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, status, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
