package models

import "time"

// FetchJob asks a worker to expand one title of the frontier.
type FetchJob struct {
	SessionID string    `json:"session_id"`
	Title     Title     `json:"title"`
	Depth     int       `json:"depth"`
	CreatedAt time.Time `json:"created_at"`
}
