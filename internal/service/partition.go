package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/fleetbook/driverapp/internal/domain"
)

// Default labels for unresolved references.
const (
	unknownSource      = "Unknown source"
	unknownDestination = "Unknown destination"
	unknownTruck       = "N/A"
	unknownDriver      = "Driver"
	unknownClient      = "Client"
)

// Partition is the driver-facing split of a trip set.
type Partition struct {
	// Trips holds every scoped view, most recent trip date first.
	Trips            []domain.DriverTripView
	ActiveTrip       *domain.DriverTripView
	TripHistory      []domain.DriverTripView
	CompletedToday   []domain.DriverTripView
	MonthlyTripCount int
}

// BuildTripView derives the view of a single trip at time now.
func BuildTripView(t domain.Trip, now time.Time) domain.DriverTripView {
	v := domain.DriverTripView{
		ID:               t.ID,
		SourceLabel:      locationLabel(t.Source, unknownSource),
		DestinationLabel: locationLabel(t.Destination, unknownDestination),
		TruckLabel:       unknownTruck,
		Status:           ClassifyTrip(t, now),
		DriverName:       personName(t.Driver, unknownDriver),
		ClientName:       personName(t.Client, unknownClient),
		Trip:             t,
	}
	if truck, ok := t.Truck.Value(); ok && truck.RegistrationNumber != "" {
		v.TruckLabel = truck.RegistrationNumber
	}
	if t.TripDate != nil {
		start := t.TripDate.UTC()
		v.StartTime = &start
	}
	if v.Status == domain.StatusCompleted && !t.UpdatedAt.IsZero() {
		end := t.UpdatedAt.UTC()
		v.EndTime = &end
	}
	return v
}

// ScopeToDriver keeps the trips assigned to driverID. When nothing matches,
// for example legacy rows without a usable driver reference, the whole set
// is returned instead of an empty list. This is a display convenience and
// must not be relied on to keep one driver's trips from another.
func ScopeToDriver(trips []domain.Trip, driverID string) []domain.Trip {
	if driverID == "" {
		return trips
	}
	var mine []domain.Trip
	for _, t := range trips {
		if driverRefID(t) == driverID {
			mine = append(mine, t)
		}
	}
	if len(mine) == 0 {
		return trips
	}
	return mine
}

// PartitionTrips scopes trips to driverID, classifies them at time now and
// splits them into the active trip, history, today's completions and the
// current month's trip count.
func PartitionTrips(trips []domain.Trip, driverID string, now time.Time) Partition {
	scoped := ScopeToDriver(trips, driverID)

	views := make([]domain.DriverTripView, 0, len(scoped))
	for _, t := range scoped {
		views = append(views, BuildTripView(t, now))
	}
	slices.SortStableFunc(views, compareTripDateDesc)

	p := Partition{
		Trips:          views,
		TripHistory:    []domain.DriverTripView{},
		CompletedToday: []domain.DriverTripView{},
	}
	today := utcDay(now)
	for i := range views {
		v := views[i]
		if v.Status != domain.StatusCompleted {
			if p.ActiveTrip == nil {
				p.ActiveTrip = &views[i]
			}
			continue
		}
		p.TripHistory = append(p.TripHistory, v)
		if ts := completionTime(v); ts != nil && utcDay(*ts) == today {
			p.CompletedToday = append(p.CompletedToday, v)
		}
	}
	p.MonthlyTripCount = countInMonth(scoped, now)
	return p
}

// compareTripDateDesc orders views by trip date, most recent first, with
// unscheduled trips last.
func compareTripDateDesc(a, b domain.DriverTripView) int {
	switch {
	case a.StartTime == nil && b.StartTime == nil:
		return 0
	case a.StartTime == nil:
		return 1
	case b.StartTime == nil:
		return -1
	}
	return cmp.Compare(b.StartTime.UnixNano(), a.StartTime.UnixNano())
}

// completionTime is the end time of a view, or its start time when the end
// time is unknown.
func completionTime(v domain.DriverTripView) *time.Time {
	if v.EndTime != nil {
		return v.EndTime
	}
	return v.StartTime
}

// utcDay is the "YYYY-MM-DD" prefix of t's ISO-8601 UTC form.
func utcDay(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// countInMonth counts trips whose trip date falls in now's calendar month.
func countInMonth(trips []domain.Trip, now time.Time) int {
	y, m, _ := now.Date()
	n := 0
	for _, t := range trips {
		if t.TripDate == nil {
			continue
		}
		ty, tm, _ := t.TripDate.In(now.Location()).Date()
		if ty == y && tm == m {
			n++
		}
	}
	return n
}

func driverRefID(t domain.Trip) string {
	if t.Driver.ID != "" {
		return t.Driver.ID
	}
	if p, ok := t.Driver.Value(); ok {
		return p.ID
	}
	return ""
}

func locationLabel(ref domain.Ref[domain.Location], fallback string) string {
	loc, ok := ref.Value()
	if !ok {
		return fallback
	}
	if loc.Name != "" {
		return loc.Name
	}
	if loc.City != "" {
		return loc.City
	}
	return fallback
}

func personName(ref domain.Ref[domain.Person], fallback string) string {
	if p, ok := ref.Value(); ok && p.Name != "" {
		return p.Name
	}
	return fallback
}
