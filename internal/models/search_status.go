package models

import "time"

// SearchState is the lifecycle state of a search session.
type SearchState string

const (
	SearchQueued        SearchState = "queued"
	SearchRunning       SearchState = "running"
	SearchFound         SearchState = "found"
	SearchNotFound      SearchState = "not_found"
	SearchDepthExceeded SearchState = "depth_exceeded"
	SearchFailed        SearchState = "failed"
)

// Done reports whether the search has reached a terminal state.
func (s SearchState) Done() bool {
	switch s {
	case SearchFound, SearchNotFound, SearchDepthExceeded, SearchFailed:
		return true
	default:
		return false
	}
}

// SearchStatus tracks the state of a search session.
type SearchStatus struct {
	SessionID string      `json:"session_id"`
	Start     Title       `json:"start"`
	Target    Title       `json:"target"`
	MaxDepth  int         `json:"max_depth"`
	Status    SearchState `json:"status"`
	Path      []Title     `json:"path,omitempty"`
	Visited   int         `json:"visited,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
