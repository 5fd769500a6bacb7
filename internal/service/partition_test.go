package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/service"
)

func fiveTrips(driverIDs ...string) []domain.Trip {
	trips := make([]domain.Trip, 5)
	for i := range trips {
		trips[i] = tripFixture(fmt.Sprintf("T%d", i+1), fixedNow.AddDate(0, 0, i+1))
		trips[i].Driver = domain.RefTo[domain.Person]("someone-else")
	}
	for i, id := range driverIDs {
		trips[i].Driver = domain.RefTo[domain.Person](id)
	}
	return trips
}

func TestScopeToDriver_FallsBackToAllWhenNoneMatch(t *testing.T) {
	trips := fiveTrips()

	got := service.ScopeToDriver(trips, "drv-1")

	assert.Len(t, got, 5)
}

func TestScopeToDriver_KeepsOnlyMatches(t *testing.T) {
	trips := fiveTrips("drv-1", "drv-1")

	got := service.ScopeToDriver(trips, "drv-1")

	require.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "T2", got[1].ID)
}

func TestScopeToDriver_MatchesEmbeddedDriver(t *testing.T) {
	trips := fiveTrips()
	trips[3].Driver = domain.Ref[domain.Person]{Embedded: &domain.Person{ID: "drv-1", Name: "Suresh"}}

	got := service.ScopeToDriver(trips, "drv-1")

	require.Len(t, got, 1)
	assert.Equal(t, "T4", got[0].ID)
}

func TestBuildTripView_Labels(t *testing.T) {
	trip := tripFixture("T1", fixedNow.AddDate(0, 0, 1))

	v := service.BuildTripView(trip, fixedNow)

	assert.Equal(t, "Pune", v.SourceLabel)
	assert.Equal(t, "Nashik", v.DestinationLabel)
	assert.Equal(t, "MH12AB1234", v.TruckLabel)
	assert.Equal(t, "Driver", v.DriverName, "a bare driver id is not resolvable")
	assert.Equal(t, "Acme Cement", v.ClientName)
	assert.Equal(t, domain.StatusAssigned, v.Status)
	require.NotNil(t, v.StartTime)
	assert.Nil(t, v.EndTime, "only completed trips have an end time")
	assert.Equal(t, "T1", v.Trip.ID)
}

func TestBuildTripView_DefaultLabels(t *testing.T) {
	trip := domain.Trip{
		ID:          "T9",
		Source:      domain.RefTo[domain.Location]("loc-x"),
		Destination: domain.Embed("loc-y", domain.Location{ID: "loc-y", City: "Indore"}),
	}

	v := service.BuildTripView(trip, fixedNow)

	assert.Equal(t, "Unknown source", v.SourceLabel)
	assert.Equal(t, "Indore", v.DestinationLabel)
	assert.Equal(t, "N/A", v.TruckLabel)
	assert.Equal(t, "Driver", v.DriverName)
	assert.Equal(t, "Client", v.ClientName)
	assert.Nil(t, v.StartTime)
}

func TestBuildTripView_CompletedHasEndTime(t *testing.T) {
	trip := tripFixture("T1", fixedNow.AddDate(0, 0, -2))
	trip.UpdatedAt = fixedNow.Add(-time.Hour)

	v := service.BuildTripView(trip, fixedNow)

	assert.Equal(t, domain.StatusCompleted, v.Status)
	require.NotNil(t, v.EndTime)
	assert.True(t, v.EndTime.Equal(trip.UpdatedAt))
}

func TestPartitionTrips(t *testing.T) {
	future := tripFixture("future", fixedNow.AddDate(0, 0, 3))
	active := tripFixture("active", fixedNow.Add(-2*time.Hour))

	doneToday := tripFixture("done-today", fixedNow.AddDate(0, 0, 2))
	doneToday.Notes = "[TRIP_STATUS:COMPLETED]"
	doneToday.CompletionMarked = true
	doneToday.UpdatedAt = fixedNow.Add(-30 * time.Minute)

	oldTrip := tripFixture("old", fixedNow.AddDate(0, -2, 0))
	unscheduled := tripFixture("unscheduled", fixedNow)
	unscheduled.TripDate = nil

	p := service.PartitionTrips(
		[]domain.Trip{oldTrip, active, unscheduled, future, doneToday},
		"drv-1", fixedNow,
	)

	// Most recent trip date first, unscheduled last.
	ids := make([]string, len(p.Trips))
	for i, v := range p.Trips {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"future", "done-today", "active", "old", "unscheduled"}, ids)

	require.NotNil(t, p.ActiveTrip)
	assert.Equal(t, "future", p.ActiveTrip.ID, "the first non-completed trip by date wins")

	require.Len(t, p.TripHistory, 2)
	assert.Equal(t, "done-today", p.TripHistory[0].ID)
	assert.Equal(t, "old", p.TripHistory[1].ID)

	require.Len(t, p.CompletedToday, 1)
	assert.Equal(t, "done-today", p.CompletedToday[0].ID)

	// October 2026: future, active, done-today. unscheduled has no date.
	assert.Equal(t, 3, p.MonthlyTripCount)
}

func TestPartitionTrips_NoActiveTrip(t *testing.T) {
	old := tripFixture("old", fixedNow.AddDate(0, 0, -3))

	p := service.PartitionTrips([]domain.Trip{old}, "drv-1", fixedNow)

	assert.Nil(t, p.ActiveTrip)
	assert.Len(t, p.TripHistory, 1)
	assert.Empty(t, p.CompletedToday)
}

func TestPartitionTrips_CompletedTodayUsesUTCDay(t *testing.T) {
	// Completed at 23:30 UTC on the 18th: a different UTC day from now even
	// though it is the 19th in India.
	trip := tripFixture("late", fixedNow.AddDate(0, 0, -1))
	trip.UpdatedAt = time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)

	p := service.PartitionTrips([]domain.Trip{trip}, "drv-1", fixedNow)

	assert.Len(t, p.TripHistory, 1)
	assert.Empty(t, p.CompletedToday)
}

func TestPartitionTrips_Empty(t *testing.T) {
	p := service.PartitionTrips(nil, "drv-1", fixedNow)

	assert.Empty(t, p.Trips)
	assert.Nil(t, p.ActiveTrip)
	assert.NotNil(t, p.TripHistory)
	assert.NotNil(t, p.CompletedToday)
	assert.Zero(t, p.MonthlyTripCount)
}
