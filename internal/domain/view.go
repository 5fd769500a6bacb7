package domain

import "time"

// DriverTripView is the derived, read-only projection of a Trip shown to a
// driver. A new view is built on every derivation pass.
type DriverTripView struct {
	ID               string     `json:"id"`
	SourceLabel      string     `json:"source"`
	DestinationLabel string     `json:"destination"`
	TruckLabel       string     `json:"truck"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"` // set only when completed
	Status           TripStatus `json:"status"`
	DriverName       string     `json:"driver_name"`
	ClientName       string     `json:"client_name"`

	// Trip is the raw record the view was derived from.
	Trip Trip `json:"-"`
}
