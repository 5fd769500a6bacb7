package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExportRow is a single row in the driver's khata export.
// It is a flat, denormalized view: one row per ledger entry linked to a trip,
// with trip fields repeated for every entry. Trips with no linked entries
// yield one row with zero values for the entry fields, and entries linked to
// no known trip yield rows with empty trip fields.
type ExportRow struct {
	// Trip fields, repeated for every entry on the trip.
	TripID      string
	TripDate    string // "2006-01-02" formatted date, empty when unscheduled
	TripStatus  TripStatus
	Source      string
	Destination string

	// Entry fields. Zero values when the trip has no linked entries.
	EntryID   string
	Nature    Nature
	Amount    decimal.Decimal
	Remarks   string
	CreatedAt *time.Time
}
