package fleetapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fleetbook/driverapp/internal/domain"
)

// List returns every trip visible to the caller.
func (c *Client) List(ctx context.Context) ([]domain.Trip, error) {
	var raw []wireTrip
	if err := c.do(ctx, http.MethodGet, "/trips", nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("fleetapi.Client.List: %w", err)
	}
	trips := make([]domain.Trip, 0, len(raw))
	for _, w := range raw {
		trips = append(trips, w.toDomain())
	}
	return trips, nil
}

// Update patches a trip and returns the stored result.
func (c *Client) Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	var w wireTrip
	if err := c.do(ctx, http.MethodPatch, "/trips/"+id, nil, patch, &w); err != nil {
		return domain.Trip{}, fmt.Errorf("fleetapi.Client.Update: %w", err)
	}
	return w.toDomain(), nil
}

// ListByDriver returns the driver's ledger entries.
func (c *Client) ListByDriver(ctx context.Context, driverID string) ([]domain.LedgerEntry, error) {
	var raw []wireEntry
	q := url.Values{"driver_id": {driverID}}
	if err := c.do(ctx, http.MethodGet, "/driver-ledger", q, nil, &raw); err != nil {
		return nil, fmt.Errorf("fleetapi.Client.ListByDriver: %w", err)
	}
	entries := make([]domain.LedgerEntry, 0, len(raw))
	for _, w := range raw {
		entries = append(entries, w.toDomain())
	}
	return entries, nil
}

// Append creates a ledger entry.
func (c *Client) Append(ctx context.Context, in domain.NewLedgerEntry) (domain.LedgerEntry, error) {
	var w wireEntry
	if err := c.do(ctx, http.MethodPost, "/driver-ledger", nil, in, &w); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("fleetapi.Client.Append: %w", err)
	}
	return w.toDomain(), nil
}

// CurrentUser returns the caller's profile, or nil when there is no session.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var w wireUser
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &w)
	if errors.Is(err, domain.ErrUnauthenticated) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fleetapi.Client.CurrentUser: %w", err)
	}
	u := w.toDomain()
	if u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

// ListMine returns up to limit server notifications for the caller.
func (c *Client) ListMine(ctx context.Context, limit int) ([]domain.Notification, error) {
	var raw []wireNotification
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, "/notifications/mine", q, nil, &raw); err != nil {
		return nil, fmt.Errorf("fleetapi.Client.ListMine: %w", err)
	}
	out := make([]domain.Notification, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// TruckDocuments returns the documents on file for a truck.
func (c *Client) TruckDocuments(ctx context.Context, truckID string) ([]domain.TruckDocument, error) {
	var raw []wireDocument
	if err := c.do(ctx, http.MethodGet, "/trucks/"+truckID+"/documents", nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("fleetapi.Client.TruckDocuments: %w", err)
	}
	docs := make([]domain.TruckDocument, 0, len(raw))
	for _, w := range raw {
		docs = append(docs, w.toDomain())
	}
	return docs, nil
}
