package models

// Edge records the link through which a title was first discovered.
// Depth is the distance of To from the start title.
type Edge struct {
	SessionID string `json:"session_id"`
	From      Title  `json:"from"`
	To        Title  `json:"to"`
	Depth     int    `json:"depth"`
}
