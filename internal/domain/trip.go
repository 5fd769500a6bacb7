// Package domain contains the core data types for the driver app backend.
// Its only external dependency is shopspring/decimal; it is imported by every
// other internal package (repo, fleetapi, service, handler).
package domain

import "time"

// Location is a loading or unloading point referenced by a trip.
type Location struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	City string `json:"city,omitempty"`
}

// Truck is a vehicle referenced by a trip.
type Truck struct {
	ID                 string `json:"id,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
}

// Person is a driver or client referenced by a trip.
type Person struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Trip is the raw trip record owned by the Trip Source.
// Completion has no canonical field; see service.ClassifyTrip.
type Trip struct {
	ID             string        `json:"id"`
	TripDate       *time.Time    `json:"trip_date,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Status         *string       `json:"status,omitempty"`
	InvoicedStatus *string       `json:"invoiced_status,omitempty"`
	Source         Ref[Location] `json:"start_location"`
	Destination    Ref[Location] `json:"end_location"`
	Truck          Ref[Truck]    `json:"truck"`
	Driver         Ref[Person]   `json:"driver"`
	Client         Ref[Person]   `json:"client"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// CompletionMarked is derived from Notes when the record enters the
	// system (legacy.NormalizeTrip). It is not part of the wire format.
	CompletionMarked bool `json:"-"`
}

// TripPatch carries the fields a Trip Source update may change.
// Nil fields are left untouched.
type TripPatch struct {
	Notes *string `json:"notes,omitempty"`
}
