package models

import "time"

// MovementType tags a stock movement record.
type MovementType string

const (
	MovementAdded    MovementType = "ADDED"
	MovementConsumed MovementType = "CONSUMED"
	MovementUpdated  MovementType = "UPDATED"
	MovementDeleted  MovementType = "DELETED"
)

// MovementTypes is the fixed ordering used for chart series.
var MovementTypes = []MovementType{MovementAdded, MovementConsumed, MovementUpdated, MovementDeleted}

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementAdded, MovementConsumed, MovementUpdated, MovementDeleted:
		return true
	}
	return false
}

// StockMovement is one row of a stock report. Records are read-only history.
type StockMovement struct {
	MovementID      string       `json:"MovementId"`
	ItemID          string       `json:"ItemId"`
	ItemName        string       `json:"ItemName"`
	QuantityChanged int          `json:"QuantityChanged"`
	MovementType    MovementType `json:"MovementType"`
	Timestamp       time.Time    `json:"Timestamp"`
	// TimestampText is the timestamp as the report wrote it, empty for
	// movements not read from a report.
	TimestampText   string       `json:"-"`
}

// ReportKind selects one of the backend report endpoints.
type ReportKind string

const (
	ReportDaily  ReportKind = "daily"
	ReportWeekly ReportKind = "weekly"
	ReportCustom ReportKind = "custom"
)
