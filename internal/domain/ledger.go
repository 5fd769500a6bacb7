package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Nature is the direction of money between driver and owner/vendor.
type Nature string

const (
	PaidByDriver     Nature = "paid_by_driver"
	ReceivedByDriver Nature = "received_by_driver"
)

// Counterparty types and directions written by the driver app.
const (
	CounterpartyVendor = "vendor"
	DirectionTo        = "to"
)

// Amounts are stored with two decimal places up to MaxAmount.
const AmountScale = 2

var MaxAmount = decimal.RequireFromString("9999999999.99")

// LedgerEntry is a single driver khata line owned by the Ledger Source.
type LedgerEntry struct {
	ID               string          `json:"id"`
	DriverID         string          `json:"driver_id"`
	Amount           decimal.Decimal `json:"amount"`
	Nature           Nature          `json:"transaction_nature"`
	CounterpartyType string          `json:"counterparty_type,omitempty"`
	Direction        string          `json:"direction,omitempty"`
	Remarks          string          `json:"remarks,omitempty"`
	TripID           string          `json:"trip_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`

	// MarkerTripID is the trip id found in a legacy "[Trip:<id>]" remark,
	// filled in by legacy.NormalizeEntry. Empty when there is none.
	MarkerTripID string `json:"-"`
}

// BelongsTo reports whether the entry is linked to the given trip, either by
// its explicit trip id or by a legacy remark marker.
func (e LedgerEntry) BelongsTo(tripID string) bool {
	if tripID == "" {
		return false
	}
	return e.TripID == tripID || e.MarkerTripID == tripID
}

// NewLedgerEntry is the input for appending a ledger line.
type NewLedgerEntry struct {
	DriverID         string          `json:"driver_id"`
	Amount           decimal.Decimal `json:"amount"`
	Nature           Nature          `json:"transaction_nature"`
	CounterpartyType string          `json:"counterparty_type"`
	Direction        string          `json:"direction"`
	Remarks          string          `json:"remarks"`
	TripID           string          `json:"trip_id,omitempty"`
}
