package models

import "time"

// ActivityUser identifies who performed an audited action.
type ActivityUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ActivityEntry is an audit trail record written by the backend.
type ActivityEntry struct {
	ID          int64        `json:"id"`
	User        ActivityUser `json:"user"`
	Action      string       `json:"action"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
}
