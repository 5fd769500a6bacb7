// Package service contains the driver app's business logic: the pure
// derivations over trips and ledger entries, the stateful DriverApp that
// holds one driver's session state, and the notification merge.
// No SQL or HTTP lives here. Services depend on the source interfaces
// below, which internal/repo (Postgres) and internal/fleetapi (REST)
// implement.
package service

import (
	"context"

	"github.com/fleetbook/driverapp/internal/domain"
)

// TripSource supplies trip records.
type TripSource interface {
	// List returns every trip visible to the caller.
	List(ctx context.Context) ([]domain.Trip, error)

	// Update applies patch to the trip with the given id and returns the
	// updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error)
}

// LedgerSource supplies and appends driver ledger entries.
type LedgerSource interface {
	ListByDriver(ctx context.Context, driverID string) ([]domain.LedgerEntry, error)
	Append(ctx context.Context, entry domain.NewLedgerEntry) (domain.LedgerEntry, error)
}

// SessionSource resolves the authenticated user.
type SessionSource interface {
	// CurrentUser returns nil and no error when no user is signed in.
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// NotificationSource supplies server notifications and truck documents.
type NotificationSource interface {
	// ListMine returns at most limit notifications addressed to the caller.
	ListMine(ctx context.Context, limit int) ([]domain.Notification, error)
	TruckDocuments(ctx context.Context, truckID string) ([]domain.TruckDocument, error)
}
