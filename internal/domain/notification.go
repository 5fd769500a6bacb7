package domain

import "time"

// NotificationKind distinguishes server notifications from reminders
// synthesized by the backend.
type NotificationKind string

const (
	KindServer         NotificationKind = "server"
	KindDocumentExpiry NotificationKind = "document_expiry"
)

// Notification is an item in the driver's notification feed.
// ScheduledAt is nil when the source did not provide one.
type Notification struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Kind        NotificationKind `json:"kind"`
	ScheduledAt *time.Time       `json:"scheduled_at,omitempty"`
	Read        bool             `json:"read"`
}

// TruckDocument is a registration, permit or insurance document of a truck.
type TruckDocument struct {
	ID         string     `json:"id"`
	TruckID    string     `json:"truck_id"`
	DocType    string     `json:"doc_type"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}
