package handler_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbook/driverapp/internal/auth"
	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/handler"
	"github.com/fleetbook/driverapp/internal/legacy"
	"github.com/fleetbook/driverapp/internal/service"
)

// fakeFleet is an in-memory backing store that satisfies every source
// interface. It normalizes records on read the way the real sources do.
type fakeFleet struct {
	mu        sync.Mutex
	trips     []domain.Trip
	entries   []domain.LedgerEntry
	users     map[string]domain.User
	notes     []domain.Notification
	docs      map[string][]domain.TruckDocument
	listErr   error
	updates   int
	lastLimit int
}

var (
	_ service.TripSource         = (*fakeFleet)(nil)
	_ service.LedgerSource       = (*fakeFleet)(nil)
	_ service.SessionSource      = (*fakeFleet)(nil)
	_ service.NotificationSource = (*fakeFleet)(nil)
)

func (f *fakeFleet) List(_ context.Context) ([]domain.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Trip, 0, len(f.trips))
	for _, t := range f.trips {
		out = append(out, legacy.NormalizeTrip(t))
	}
	return out, nil
}

func (f *fakeFleet) Update(_ context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.trips {
		if f.trips[i].ID != id {
			continue
		}
		if patch.Notes != nil {
			f.trips[i].Notes = *patch.Notes
		}
		f.trips[i].UpdatedAt = fixedNow
		f.updates++
		return legacy.NormalizeTrip(f.trips[i]), nil
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (f *fakeFleet) ListByDriver(_ context.Context, driverID string) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.LedgerEntry{}
	for _, e := range f.entries {
		if e.DriverID == driverID {
			out = append(out, legacy.NormalizeEntry(e))
		}
	}
	return out, nil
}

func (f *fakeFleet) Append(_ context.Context, in domain.NewLedgerEntry) (domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := domain.LedgerEntry{
		ID:               fmt.Sprintf("e-new-%d", len(f.entries)+1),
		DriverID:         in.DriverID,
		Amount:           in.Amount,
		Nature:           in.Nature,
		CounterpartyType: in.CounterpartyType,
		Direction:        in.Direction,
		Remarks:          in.Remarks,
		TripID:           in.TripID,
		CreatedAt:        fixedNow,
	}
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeFleet) CurrentUser(ctx context.Context) (*domain.User, error) {
	id, ok := auth.UserIDFrom(ctx)
	if !ok {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeFleet) ListMine(_ context.Context, limit int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return slices.Clone(f.notes), nil
}

func (f *fakeFleet) TruckDocuments(_ context.Context, truckID string) ([]domain.TruckDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[truckID], nil
}

func (f *fakeFleet) appended() []domain.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.entries)
}

// fixedNow is the instant every handler test runs at.
var fixedNow = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func str(s string) *string { return &s }

// newFleet returns a store holding one driver's trips, ledger, notifications
// and truck documents, plus one trip of another driver.
//
// At fixedNow: t-active is active, t-done completed today, t-old completed in
// September. The khata nets to 150 and t-done carries 350 of expenses, one
// entry linked only through its remarks tag.
func newFleet() *fakeFleet {
	depot := domain.Embed("loc-1", domain.Location{ID: "loc-1", Name: "Depot", City: "Pune"})
	port := domain.Embed("loc-2", domain.Location{ID: "loc-2", Name: "Port", City: "Mumbai"})
	me := domain.Embed("drv-1", domain.Person{ID: "drv-1", Name: "Suresh"})

	return &fakeFleet{
		trips: []domain.Trip{
			{ID: "t-active", TripDate: at("2026-10-19T08:00:00Z"), Status: str("active"), Source: depot, Destination: port, Driver: me},
			{ID: "t-done", TripDate: at("2026-10-18T06:00:00Z"), Status: str("completed"), Source: port, Destination: depot, Driver: me, UpdatedAt: *at("2026-10-19T10:00:00Z")},
			{ID: "t-old", TripDate: at("2026-09-01T06:00:00Z"), Driver: me, UpdatedAt: *at("2026-09-02T10:00:00Z")},
			{ID: "t-other", TripDate: at("2026-10-19T09:00:00Z"), Driver: domain.RefTo[domain.Person]("drv-2")},
		},
		entries: []domain.LedgerEntry{
			{ID: "e1", DriverID: "drv-1", Amount: decimal.NewFromInt(500), Nature: domain.ReceivedByDriver, Remarks: "Advance", CreatedAt: *at("2026-10-10T09:00:00Z")},
			{ID: "e2", DriverID: "drv-1", Amount: decimal.NewFromInt(200), Nature: domain.PaidByDriver, Remarks: "Diesel", TripID: "t-done", CreatedAt: *at("2026-10-18T09:00:00Z")},
			{ID: "e3", DriverID: "drv-1", Amount: decimal.NewFromInt(150), Nature: domain.PaidByDriver, Remarks: "Toll [Trip: t-done]", CreatedAt: *at("2026-10-18T11:00:00Z")},
			{ID: "e4", DriverID: "drv-2", Amount: decimal.NewFromInt(999), Nature: domain.PaidByDriver, CreatedAt: *at("2026-10-18T11:00:00Z")},
		},
		users: map[string]domain.User{
			"drv-1": {ID: "drv-1", Name: "Suresh", Role: "driver", AssignedTruckID: "trk-1"},
		},
		notes: []domain.Notification{
			{ID: "n1", Title: "Welcome", Message: "Drive safe", Kind: domain.KindServer, ScheduledAt: at("2026-10-18T09:00:00Z")},
		},
		docs: map[string][]domain.TruckDocument{
			"trk-1": {
				{ID: "d1", TruckID: "trk-1", DocType: "Insurance", ExpiryDate: at("2026-10-24T00:00:00Z")},
				{ID: "d2", TruckID: "trk-1", DocType: "Permit", ExpiryDate: at("2027-06-01T00:00:00Z")},
			},
		},
	}
}

// newHTTPHandler wires a Server over fleet the same way main.go does, minus
// the authentication middleware.
func newHTTPHandler(fleet *fakeFleet) http.Handler {
	h, _ := newHTTPHandlerWithSessions(fleet)
	return h
}

// newHTTPHandlerWithSessions is newHTTPHandler that also hands back the
// session registry.
func newHTTPHandlerWithSessions(fleet *fakeFleet) (http.Handler, *service.Sessions) {
	clock := func() time.Time { return fixedNow }
	sessions := service.NewSessions(func() *service.DriverApp {
		return service.NewDriverApp(fleet, fleet, fleet, clock)
	}, 0, clock)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := service.NewNotificationService(fleet, fleet, clock, log)
	return handler.NewServer(sessions, notifier, []byte("openapi: 3.0.3\n"), log).Routes(), sessions
}

// do serves one request, signed in as userID unless it is empty.
func do(h http.Handler, req *http.Request, userID string) *httptest.ResponseRecorder {
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
