package models

import "time"

// NotificationCounts is the snapshot published by the notifications poller.
type NotificationCounts struct {
	LowStock  int       `json:"lowStock"`
	Expiring  int       `json:"expiring"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Total is the badge count shown next to the bell icon.
func (c NotificationCounts) Total() int {
	return c.LowStock + c.Expiring
}
