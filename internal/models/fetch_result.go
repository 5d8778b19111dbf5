package models

// FailureKind classifies why a link fetch did not produce links.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureNotFound    FailureKind = "not_found"
	FailureRateLimited FailureKind = "rate_limited"
	FailureNetwork     FailureKind = "network_failure"
)

// Transient reports whether a fetch that failed this way may succeed when retried.
func (k FailureKind) Transient() bool {
	return k == FailureRateLimited || k == FailureNetwork
}

// FetchResult is what a worker hands back to the coordinator for one job.
// A failed fetch carries no links: the title is a dead end.
type FetchResult struct {
	Title    Title       `json:"title"`
	Depth    int         `json:"depth"`
	Links    []Title     `json:"links,omitempty"`
	Failure  FailureKind `json:"failure,omitempty"`
	Attempts int         `json:"attempts"`
	Err      error       `json:"-"`
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Failure == FailureNone
}
