package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/legacy"
)

// TripRepo is the Postgres Trip Source.
type TripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) *TripRepo {
	return &TripRepo{db: db}
}

// tripSelect joins every trip reference so views can be labelled without
// further lookups.
const tripSelect = `
	SELECT t.id::text, t.trip_date, t.notes, t.status, t.invoiced_status,
	       t.start_location_id::text, sl.name, sl.city,
	       t.end_location_id::text, el.name, el.city,
	       t.truck_id::text, tr.registration_number,
	       t.driver_id::text, u.name,
	       t.client_id::text, c.name,
	       t.updated_at
	FROM trips t
	LEFT JOIN locations sl ON sl.id = t.start_location_id
	LEFT JOIN locations el ON el.id = t.end_location_id
	LEFT JOIN trucks tr    ON tr.id = t.truck_id
	LEFT JOIN users u      ON u.id  = t.driver_id
	LEFT JOIN clients c    ON c.id  = t.client_id`

// List returns all trips ordered by trip_date descending (most recent first,
// unscheduled trips last).
func (r *TripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, tripSelect+` ORDER BY t.trip_date DESC NULLS LAST, t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

// GetByID retrieves a trip by primary key.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (r *TripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	if !validID(id) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	row := r.db.QueryRow(ctx, tripSelect+` WHERE t.id = @id`, pgx.NamedArgs{"id": id})
	t, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return t, nil
}

// Update applies the non-nil fields of patch and returns the updated record.
// Returns domain.ErrNotFound if no trip with that ID exists.
func (r *TripRepo) Update(ctx context.Context, id string, patch domain.TripPatch) (domain.Trip, error) {
	if !validID(id) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}
	const q = `
		UPDATE trips
		SET notes      = COALESCE(@notes, notes),
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "notes": patch.Notes})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", domain.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// scanTrip maps a single tripSelect row into a normalized domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t                       domain.Trip
		tripDate                *time.Time
		srcID, srcName, srcCity *string
		dstID, dstName, dstCity *string
		truckID, truckReg       *string
		driverID, driverName    *string
		clientID, clientName    *string
	)

	err := s.Scan(
		&t.ID, &tripDate, &t.Notes, &t.Status, &t.InvoicedStatus,
		&srcID, &srcName, &srcCity,
		&dstID, &dstName, &dstCity,
		&truckID, &truckReg,
		&driverID, &driverName,
		&clientID, &clientName,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.TripDate = tripDate
	t.Source = locationRef(srcID, srcName, srcCity)
	t.Destination = locationRef(dstID, dstName, dstCity)
	if truckID != nil {
		t.Truck = domain.Embed(*truckID, domain.Truck{ID: *truckID, RegistrationNumber: deref(truckReg)})
	}
	t.Driver = personRef(driverID, driverName)
	t.Client = personRef(clientID, clientName)

	return legacy.NormalizeTrip(t), nil
}

func locationRef(id, name, city *string) domain.Ref[domain.Location] {
	if id == nil {
		return domain.Ref[domain.Location]{}
	}
	return domain.Embed(*id, domain.Location{ID: *id, Name: deref(name), City: deref(city)})
}

func personRef(id, name *string) domain.Ref[domain.Person] {
	if id == nil {
		return domain.Ref[domain.Person]{}
	}
	return domain.Embed(*id, domain.Person{ID: *id, Name: deref(name)})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
