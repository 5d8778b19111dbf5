// Package telemetry holds the Prometheus collectors for the search engine and
// the HTTP server exposing them.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wikipath/internal/models"
)

const namespace = "wikipath"

var (
	jobsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_jobs_dispatched_total",
		Help:      "Fetch jobs handed to the worker pool.",
	})

	fetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_retries_total",
		Help:      "Link fetch attempts that were retried after a transient failure.",
	})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Fetch jobs that ended without links, by failure kind.",
	}, []string{"kind"})

	rateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Fetch attempts rejected by the remote API as rate limited.",
	})

	fetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_latency_seconds",
		Help:      "Latency of a single link fetch attempt.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	workersInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workers_in_flight",
		Help:      "Fetch jobs currently being processed by workers.",
	})

	titlesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "titles_discovered_total",
		Help:      "Titles added to a visited set.",
	})

	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Completed searches by outcome.",
	}, []string{"outcome"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Wall time of a search session.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	edgesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graph_edges_consumed_total",
		Help:      "Edges read from Kafka by the graph writer, by result.",
	}, []string{"result"})
)

// JobDispatched counts a job entering the pool queue.
func JobDispatched() {
	jobsDispatched.Inc()
}

// FetchRetried counts one retried attempt.
func FetchRetried() {
	fetchRetries.Inc()
}

// FetchFailed counts a job that ended as a dead end.
func FetchFailed(kind models.FailureKind) {
	fetchFailures.WithLabelValues(string(kind)).Inc()
}

// ObserveFetch records the latency of one fetch attempt and whether the
// source rate limited it.
func ObserveFetch(d time.Duration, kind models.FailureKind) {
	fetchLatency.Observe(d.Seconds())
	if kind == models.FailureRateLimited {
		rateLimitHits.Inc()
	}
}

// WorkerBusy moves the in-flight gauge; pass -1 when the job completes.
func WorkerBusy(delta float64) {
	workersInFlight.Add(delta)
}

// TitleDiscovered counts a new entry in a visited set.
func TitleDiscovered() {
	titlesDiscovered.Inc()
}

// SearchCompleted records the outcome and duration of a search.
func SearchCompleted(outcome string, d time.Duration) {
	searchesTotal.WithLabelValues(outcome).Inc()
	searchDuration.Observe(d.Seconds())
}

// EdgeConsumed counts an edge handled by the graph writer. result is one
// of written, failed or malformed.
func EdgeConsumed(result string) {
	edgesConsumed.WithLabelValues(result).Inc()
}
