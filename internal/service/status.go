package service

import (
	"strings"
	"time"

	"github.com/fleetbook/driverapp/internal/domain"
)

// completedStatuses are the status field values that mean a trip is done.
var completedStatuses = map[string]bool{
	"completed": true,
	"complete":  true,
	"closed":    true,
	"done":      true,
}

// ClassifyTrip maps a raw trip to exactly one TripStatus. Rules are applied
// in order and the first match wins:
//
//  1. completion marker in notes              → Completed
//  2. status is completed/complete/closed/done → Completed
//  3. invoiced status is "invoiced"            → Completed
//  4. trip date's local day has fully passed   → Completed
//  5. trip date is at or before now            → Active
//  6. otherwise                                → Assigned
//
// Rule 4 treats any unmarked trip from an earlier day as completed, even if
// the driver never started it. Records from before explicit status tracking
// depend on it.
func ClassifyTrip(t domain.Trip, now time.Time) domain.TripStatus {
	if t.CompletionMarked {
		return domain.StatusCompleted
	}
	if t.Status != nil && completedStatuses[normalizeStatus(*t.Status)] {
		return domain.StatusCompleted
	}
	if t.InvoicedStatus != nil && normalizeStatus(*t.InvoicedStatus) == "invoiced" {
		return domain.StatusCompleted
	}
	if t.TripDate != nil {
		if endOfDay(*t.TripDate, now.Location()).Before(now) {
			return domain.StatusCompleted
		}
		if !t.TripDate.After(now) {
			return domain.StatusActive
		}
	}
	return domain.StatusAssigned
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// endOfDay returns 23:59:59.999 of t's calendar day in loc.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}
