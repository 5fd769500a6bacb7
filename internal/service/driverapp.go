package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/legacy"
)

// DriverApp holds one driver session's trips, ledger and user, and derives
// the driver-facing views from them.
//
// Writes (AddExpense, CompleteTrip) never reload state on their own. Callers
// reload explicitly with ReloadTrips, ReloadLedger or Refresh once a write
// succeeds. Failed loads keep the previously loaded data.
type DriverApp struct {
	trips   TripSource
	ledger  LedgerSource
	session SessionSource
	now     func() time.Time

	mu       sync.RWMutex
	user     *domain.User
	raw      []domain.Trip
	entries  []domain.LedgerEntry
	inFlight int
}

// Snapshot is the derived state of a DriverApp at one instant.
type Snapshot struct {
	User             *domain.User
	Trips            []domain.DriverTripView
	ActiveTrip       *domain.DriverTripView
	TripHistory      []domain.DriverTripView
	CompletedToday   []domain.DriverTripView
	MonthlyTripCount int
	Ledger           []domain.LedgerEntry
	NetKhata         decimal.Decimal
	Refreshing       bool
}

// NewDriverApp constructs a DriverApp over the given sources.
// now defaults to time.Now when nil.
func NewDriverApp(trips TripSource, ledger LedgerSource, session SessionSource, now func() time.Time) *DriverApp {
	if now == nil {
		now = time.Now
	}
	return &DriverApp{trips: trips, ledger: ledger, session: session, now: now}
}

// Refresh reloads the session user, the driver's ledger and all trips. The
// session→ledger chain and the trip fetch run concurrently; state is replaced
// only when both succeed.
func (a *DriverApp) Refresh(ctx context.Context) error {
	a.beginRefresh()
	defer a.endRefresh()

	var (
		user    *domain.User
		entries []domain.LedgerEntry
		trips   []domain.Trip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := a.session.CurrentUser(gctx)
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
		user = u
		if u == nil {
			return nil
		}
		entries, err = a.ledger.ListByDriver(gctx, u.ID)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		trips, err = a.trips.List(gctx)
		if err != nil {
			return fmt.Errorf("trips: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("service.DriverApp.Refresh: %w", err)
	}

	a.mu.Lock()
	a.user = user
	a.raw = trips
	a.entries = sortEntriesNewestFirst(entries)
	a.mu.Unlock()
	return nil
}

// ReloadTrips re-fetches all trips.
func (a *DriverApp) ReloadTrips(ctx context.Context) error {
	trips, err := a.trips.List(ctx)
	if err != nil {
		return fmt.Errorf("service.DriverApp.ReloadTrips: %w", err)
	}
	a.mu.Lock()
	a.raw = trips
	a.mu.Unlock()
	return nil
}

// ReloadLedger re-fetches the current user's ledger.
// Returns domain.ErrUnauthenticated if no user can be resolved.
func (a *DriverApp) ReloadLedger(ctx context.Context) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return fmt.Errorf("service.DriverApp.ReloadLedger: %w", err)
	}
	entries, err := a.ledger.ListByDriver(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("service.DriverApp.ReloadLedger: %w", err)
	}
	a.mu.Lock()
	a.entries = sortEntriesNewestFirst(entries)
	a.mu.Unlock()
	return nil
}

// AddExpense records money paid by the driver to a vendor, optionally linked
// to a trip. The session user is checked before anything is written.
// Returns domain.ErrUnauthenticated without a user and domain.ErrValidation
// for an amount that is not positive, has more than two decimal places or
// exceeds domain.MaxAmount, or for a blank description.
func (a *DriverApp) AddExpense(ctx context.Context, amount decimal.Decimal, description, tripID string) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return fmt.Errorf("service.DriverApp.AddExpense: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	if !amount.Equal(amount.Truncate(domain.AmountScale)) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", domain.ErrValidation, domain.AmountScale)
	}
	if amount.GreaterThan(domain.MaxAmount) {
		return fmt.Errorf("%w: amount must be at most %s", domain.ErrValidation, domain.MaxAmount)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	_, err = a.ledger.Append(ctx, domain.NewLedgerEntry{
		DriverID:         user.ID,
		Amount:           amount,
		Nature:           domain.PaidByDriver,
		CounterpartyType: domain.CounterpartyVendor,
		Direction:        domain.DirectionTo,
		Remarks:          description,
		TripID:           strings.TrimSpace(tripID),
	})
	if err != nil {
		return fmt.Errorf("service.DriverApp.AddExpense: %w", err)
	}
	return nil
}

// CompleteTrip marks the trip with the given id as completed by appending the
// completion marker to its notes. A trip that already carries the marker is
// left alone and nothing is written. The in-memory trip set is not changed.
// Returns domain.ErrNotFound if the trip is not among the driver's loaded
// trips.
func (a *DriverApp) CompleteTrip(ctx context.Context, tripID string) error {
	trip, ok := a.scopedTrip(tripID)
	if !ok {
		return fmt.Errorf("service.DriverApp.CompleteTrip: trip %q: %w", tripID, domain.ErrNotFound)
	}
	if trip.CompletionMarked {
		return nil
	}

	notes := legacy.WithCompletionMarker(trip.Notes)
	if _, err := a.trips.Update(ctx, trip.ID, domain.TripPatch{Notes: &notes}); err != nil {
		return fmt.Errorf("service.DriverApp.CompleteTrip: %w", err)
	}
	return nil
}

// Snapshot derives the current views from loaded state.
func (a *DriverApp) Snapshot() Snapshot {
	a.mu.RLock()
	user := a.user
	raw := a.raw
	entries := a.entries
	refreshing := a.inFlight > 0
	a.mu.RUnlock()

	var driverID string
	if user != nil {
		driverID = user.ID
	}
	p := PartitionTrips(raw, driverID, a.now())
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}

	return Snapshot{
		User:             user,
		Trips:            p.Trips,
		ActiveTrip:       p.ActiveTrip,
		TripHistory:      p.TripHistory,
		CompletedToday:   p.CompletedToday,
		MonthlyTripCount: p.MonthlyTripCount,
		Ledger:           entries,
		NetKhata:         NetBalance(entries),
		Refreshing:       refreshing,
	}
}

// Trip returns the current view of one of the driver's loaded trips.
func (a *DriverApp) Trip(id string) (domain.DriverTripView, bool) {
	t, ok := a.scopedTrip(id)
	if !ok {
		return domain.DriverTripView{}, false
	}
	return BuildTripView(t, a.now()), true
}

// TripExpenses returns the loaded ledger entries linked to a trip and their
// gross total.
func (a *DriverApp) TripExpenses(tripID string) ([]domain.LedgerEntry, decimal.Decimal) {
	a.mu.RLock()
	entries := a.entries
	a.mu.RUnlock()
	return EntriesForTrip(entries, tripID), ExpenseTotalForTrip(entries, tripID)
}

// User returns the loaded session user, or nil when none was resolved.
func (a *DriverApp) User() *domain.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

// Refreshing reports whether a Refresh is in flight.
func (a *DriverApp) Refreshing() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.inFlight > 0
}

// currentUser returns the loaded user, asking the session source when none
// has been loaded yet.
func (a *DriverApp) currentUser(ctx context.Context) (*domain.User, error) {
	a.mu.RLock()
	user := a.user
	a.mu.RUnlock()
	if user != nil {
		return user, nil
	}

	user, err := a.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	a.mu.Lock()
	a.user = user
	a.mu.Unlock()
	return user, nil
}

// scopedTrip looks id up in the same driver-scoped set Snapshot derives
// its views from.
func (a *DriverApp) scopedTrip(id string) (domain.Trip, bool) {
	a.mu.RLock()
	raw := a.raw
	var driverID string
	if a.user != nil {
		driverID = a.user.ID
	}
	a.mu.RUnlock()

	for _, t := range ScopeToDriver(raw, driverID) {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Trip{}, false
}

func (a *DriverApp) beginRefresh() {
	a.mu.Lock()
	a.inFlight++
	a.mu.Unlock()
}

func (a *DriverApp) endRefresh() {
	a.mu.Lock()
	a.inFlight--
	a.mu.Unlock()
}
