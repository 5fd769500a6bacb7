package domain

// TripStatus is the driver-facing classification of a trip.
type TripStatus string

const (
	StatusAssigned  TripStatus = "Assigned"
	StatusActive    TripStatus = "Active"
	StatusCompleted TripStatus = "Completed"
)
