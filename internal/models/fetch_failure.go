package models

import "time"

// FetchFailure captures a title whose links could not be fetched, for the DLQ.
type FetchFailure struct {
	SessionID string      `json:"session_id"`
	Title     Title       `json:"title"`
	Depth     int         `json:"depth"`
	Kind      FailureKind `json:"kind"`
	Error     string      `json:"error"`
	Attempts  int         `json:"attempts"`
	FailedAt  time.Time   `json:"failed_at"`
}
