package domain

import "time"

// AgentViewedRequest is emitted when an approved agent opens a single estate
// request. It is the only write triggered by a read.
type AgentViewedRequest struct {
	RequestID string
	AgentID   string
	ViewedAt  time.Time
}
