package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/legacy"
	"github.com/fleetbook/driverapp/internal/repo"
)

func TestTripRepo_List_EmbedsReferences(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	truck := seedTruck(t, tx, "MH12AB1234")
	driver := seedUser(t, tx, "Suresh", truck)
	src := seedLocation(t, tx, "Depot", "Pune")
	dst := seedLocation(t, tx, "Port", "Mumbai")
	date := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	id := seedTrip(t, tx, tripSeed{date: &date, status: ptr("assigned"), src: src, dst: dst, truckID: truck, driverID: driver})

	trips, err := repo.NewTripRepo(tx).List(ctx)
	require.NoError(t, err)

	var got *domain.Trip
	for i := range trips {
		if trips[i].ID == id {
			got = &trips[i]
		}
	}
	require.NotNil(t, got, "seeded trip should be listed")

	srcLoc, _ := got.Source.Value()
	dstLoc, _ := got.Destination.Value()
	gotTruck, _ := got.Truck.Value()
	gotDriver, _ := got.Driver.Value()
	assert.Equal(t, "Pune", srcLoc.City)
	assert.Equal(t, "Port", dstLoc.Name)
	assert.Equal(t, "MH12AB1234", gotTruck.RegistrationNumber)
	assert.Equal(t, driver, got.Driver.ID)
	assert.Equal(t, "Suresh", gotDriver.Name)
	assert.True(t, got.Client.IsZero())
	require.NotNil(t, got.Status)
	assert.Equal(t, "assigned", *got.Status)
	require.NotNil(t, got.TripDate)
	assert.True(t, date.Equal(*got.TripDate))
}

func TestTripRepo_List_OrdersByDateDescending(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()

	early := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	earlyID := seedTrip(t, tx, tripSeed{date: &early})
	lateID := seedTrip(t, tx, tripSeed{date: &late})

	trips, err := repo.NewTripRepo(tx).List(ctx)
	require.NoError(t, err)

	pos := map[string]int{}
	for i, tr := range trips {
		pos[tr.ID] = i
	}
	assert.Less(t, pos[lateID], pos[earlyID], "later trip should come first")
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTripRepo(tx)

	_, err := r.GetByID(context.Background(), "ffffffff-ffff-ffff-ffff-ffffffffffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = r.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Update_AppendsNotes(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	r := repo.NewTripRepo(tx)

	id := seedTrip(t, tx, tripSeed{notes: "fragile cargo", status: ptr("active")})
	notes := legacy.WithCompletionMarker("fragile cargo")

	updated, err := r.Update(ctx, id, domain.TripPatch{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	assert.True(t, updated.CompletionMarked, "marker should be recognized on read")
	require.NotNil(t, updated.Status)
	assert.Equal(t, "active", *updated.Status, "status column is untouched")
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestTripRepo_Update_NilNotesKeepsExisting(t *testing.T) {
	tx := newTestTx(t)
	id := seedTrip(t, tx, tripSeed{notes: "keep me"})

	updated, err := repo.NewTripRepo(tx).Update(context.Background(), id, domain.TripPatch{})

	require.NoError(t, err)
	assert.Equal(t, "keep me", updated.Notes)
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	tx := newTestTx(t)
	notes := "x"

	_, err := repo.NewTripRepo(tx).Update(context.Background(), "deadbeef-dead-beef-dead-beefdeadbeef", domain.TripPatch{Notes: &notes})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
