package repo_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetbook/driverapp/testutil"
)

// newTestTx and insertID keep the fixture call sites short.
func newTestTx(t *testing.T) pgx.Tx { return testutil.NewTx(t) }

func insertID(t *testing.T, tx pgx.Tx, q string, args pgx.NamedArgs) string {
	t.Helper()
	return testutil.InsertID(t, tx, q, args)
}

func seedTruck(t *testing.T, tx pgx.Tx, reg string) string {
	t.Helper()
	return insertID(t, tx,
		`INSERT INTO trucks (registration_number) VALUES (@reg) RETURNING id::text`,
		pgx.NamedArgs{"reg": reg})
}

func seedUser(t *testing.T, tx pgx.Tx, name, truckID string) string {
	t.Helper()
	var truck *string
	if truckID != "" {
		truck = &truckID
	}
	return insertID(t, tx,
		`INSERT INTO users (name, assigned_truck_id) VALUES (@name, @truck) RETURNING id::text`,
		pgx.NamedArgs{"name": name, "truck": truck})
}

func seedLocation(t *testing.T, tx pgx.Tx, name, city string) string {
	t.Helper()
	return insertID(t, tx,
		`INSERT INTO locations (name, city) VALUES (@name, @city) RETURNING id::text`,
		pgx.NamedArgs{"name": name, "city": city})
}

type tripSeed struct {
	date     *time.Time
	notes    string
	status   *string
	src, dst string
	truckID  string
	driverID string
}

func seedTrip(t *testing.T, tx pgx.Tx, s tripSeed) string {
	t.Helper()
	opt := func(id string) *string {
		if id == "" {
			return nil
		}
		return &id
	}
	return insertID(t, tx, `
		INSERT INTO trips (trip_date, notes, status, start_location_id, end_location_id, truck_id, driver_id)
		VALUES (@date, @notes, @status, @src, @dst, @truck, @driver)
		RETURNING id::text`,
		pgx.NamedArgs{
			"date":   s.date,
			"notes":  s.notes,
			"status": s.status,
			"src":    opt(s.src),
			"dst":    opt(s.dst),
			"truck":  opt(s.truckID),
			"driver": opt(s.driverID),
		})
}

func ptr[T any](v T) *T { return &v }
