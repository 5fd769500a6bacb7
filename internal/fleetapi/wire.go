package fleetapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/legacy"
)

// idStub decodes reference fields the adapter only needs the id of.
type idStub struct {
	ID string `json:"id"`
}

// wireTrip accepts both id spellings and both status field names the
// backend has used over time.
type wireTrip struct {
	domain.Trip
	MongoID    string  `json:"_id"`
	TripStatus *string `json:"trip_status"`
}

func (w wireTrip) toDomain() domain.Trip {
	t := w.Trip
	if t.ID == "" {
		t.ID = w.MongoID
	}
	if t.Status == nil {
		t.Status = w.TripStatus
	}
	return legacy.NormalizeTrip(t)
}

type wireEntry struct {
	domain.LedgerEntry
	MongoID string             `json:"_id"`
	Driver  domain.Ref[idStub] `json:"driver_id"`
	Trip    domain.Ref[idStub] `json:"trip_id"`
}

func (w wireEntry) toDomain() domain.LedgerEntry {
	e := w.LedgerEntry
	if e.ID == "" {
		e.ID = w.MongoID
	}
	e.DriverID = w.Driver.ID
	e.TripID = w.Trip.ID
	return legacy.NormalizeEntry(e)
}

type wireUser struct {
	ID            string                   `json:"id"`
	MongoID       string                   `json:"_id"`
	Name          string                   `json:"name"`
	Role          string                   `json:"role"`
	AssignedTruck domain.Ref[domain.Truck] `json:"assigned_truck"`
}

func (w wireUser) toDomain() domain.User {
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	return domain.User{ID: id, Name: w.Name, Role: w.Role, AssignedTruckID: w.AssignedTruck.ID}
}

type wireNotification struct {
	ID          string     `json:"id"`
	MongoID     string     `json:"_id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Body        string     `json:"body"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Read        bool       `json:"read"`
}

func (w wireNotification) toDomain() domain.Notification {
	n := domain.Notification{
		ID:          w.ID,
		Title:       w.Title,
		Message:     w.Message,
		Kind:        domain.KindServer,
		ScheduledAt: w.ScheduledAt,
		Read:        w.Read,
	}
	if n.ID == "" {
		n.ID = w.MongoID
	}
	if n.Message == "" {
		n.Message = w.Body
	}
	return n
}

type wireDocument struct {
	ID         string             `json:"id"`
	MongoID    string             `json:"_id"`
	Truck      domain.Ref[idStub] `json:"truck_id"`
	DocType    string             `json:"doc_type"`
	ExpiryDate flexDate           `json:"expiry_date"`
}

func (w wireDocument) toDomain() domain.TruckDocument {
	d := domain.TruckDocument{ID: w.ID, TruckID: w.Truck.ID, DocType: w.DocType, ExpiryDate: w.ExpiryDate.t}
	if d.ID == "" {
		d.ID = w.MongoID
	}
	return d
}

// flexDate reads either a calendar date or an RFC 3339 timestamp.
type flexDate struct {
	t *time.Time
}

func (f *flexDate) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fleetapi: date: %w", err)
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		f.t = nil
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, *s); err == nil {
			f.t = &t
			return nil
		}
	}
	return fmt.Errorf("fleetapi: unrecognized date %q", *s)
}
