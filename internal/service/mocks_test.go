package service_test

import (
	"context"
	"time"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/legacy"
	"github.com/fleetbook/driverapp/internal/service"
)

// mockTripSource is a hand-written test double for service.TripSource.
// Each method is a function field; set only the ones your test needs.
type mockTripSource struct {
	list   func(ctx context.Context) ([]domain.Trip, error)
	update func(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
}

func (m *mockTripSource) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripSource) Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, id, patch)
}

type mockLedgerSource struct {
	listByDriver func(ctx context.Context, driverID string) ([]domain.LedgerEntry, error)
	appendEntry  func(ctx context.Context, e domain.NewLedgerEntry) (domain.LedgerEntry, error)
}

func (m *mockLedgerSource) ListByDriver(ctx context.Context, driverID string) ([]domain.LedgerEntry, error) {
	return m.listByDriver(ctx, driverID)
}
func (m *mockLedgerSource) Append(ctx context.Context, e domain.NewLedgerEntry) (domain.LedgerEntry, error) {
	return m.appendEntry(ctx, e)
}

type mockSession struct {
	currentUser func(ctx context.Context) (*domain.User, error)
}

func (m *mockSession) CurrentUser(ctx context.Context) (*domain.User, error) {
	return m.currentUser(ctx)
}

type mockNotificationSource struct {
	listMine       func(ctx context.Context, limit int) ([]domain.Notification, error)
	truckDocuments func(ctx context.Context, truckID string) ([]domain.TruckDocument, error)
}

func (m *mockNotificationSource) ListMine(ctx context.Context, limit int) ([]domain.Notification, error) {
	return m.listMine(ctx, limit)
}
func (m *mockNotificationSource) TruckDocuments(ctx context.Context, truckID string) ([]domain.TruckDocument, error) {
	return m.truckDocuments(ctx, truckID)
}

// compile-time checks: the mocks must satisfy the source interfaces.
var (
	_ service.TripSource         = (*mockTripSource)(nil)
	_ service.LedgerSource       = (*mockLedgerSource)(nil)
	_ service.SessionSource      = (*mockSession)(nil)
	_ service.NotificationSource = (*mockNotificationSource)(nil)
)

// ---- in-memory trip store --------------------------------------------------

// memTrips is a TripSource backed by a slice. It records every Update call
// and normalizes records on the way out, like the real adapters do.
type memTrips struct {
	trips   []domain.Trip
	updates []domain.TripPatch
}

func (m *memTrips) List(_ context.Context) ([]domain.Trip, error) {
	out := make([]domain.Trip, len(m.trips))
	for i, t := range m.trips {
		out[i] = legacy.NormalizeTrip(t)
	}
	return out, nil
}

func (m *memTrips) Update(_ context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	m.updates = append(m.updates, patch)
	for i := range m.trips {
		if m.trips[i].ID == id {
			if patch.Notes != nil {
				m.trips[i].Notes = *patch.Notes
			}
			return legacy.NormalizeTrip(m.trips[i]), nil
		}
	}
	return domain.Trip{}, domain.ErrNotFound
}

// ---- helpers ---------------------------------------------------------------

// fixedNow is the clock used throughout the service tests.
var fixedNow = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

func staticUser(u *domain.User) *mockSession {
	return &mockSession{
		currentUser: func(_ context.Context) (*domain.User, error) { return u, nil },
	}
}

func driver() *domain.User {
	return &domain.User{ID: "drv-1", Name: "Suresh", AssignedTruckID: "trk-1"}
}

// tripFixture returns a normalized trip assigned to drv-1.
func tripFixture(id string, date time.Time) domain.Trip {
	return legacy.NormalizeTrip(domain.Trip{
		ID:          id,
		TripDate:    &date,
		Source:      domain.Embed("loc-a", domain.Location{ID: "loc-a", Name: "Pune"}),
		Destination: domain.Embed("loc-b", domain.Location{ID: "loc-b", Name: "Nashik"}),
		Truck:       domain.Embed("trk-1", domain.Truck{ID: "trk-1", RegistrationNumber: "MH12AB1234"}),
		Driver:      domain.RefTo[domain.Person]("drv-1"),
		Client:      domain.Embed("cl-1", domain.Person{ID: "cl-1", Name: "Acme Cement"}),
		UpdatedAt:   date,
	})
}
