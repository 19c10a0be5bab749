package model

import "time"

// Message represents a chat message in the conversation
type Message struct {
	Sender    string
	Content   string
	Rendered  string // Cached rendered markdown (optimize if storage becomes a concern)
	Timestamp time.Time
}
