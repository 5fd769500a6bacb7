// Package legacy isolates the metadata older app versions embedded in free
// text: the trip completion marker in trip notes and the "[Trip:<id>]" tag in
// ledger remarks. Records are normalized here once, at the point they enter
// the system, so the rest of the code works with typed fields only.
package legacy

import (
	"regexp"
	"strings"

	"github.com/fleetbook/driverapp/internal/domain"
)

// CompletionMarker is appended to a trip's notes when the driver completes it.
const CompletionMarker = "[TRIP_STATUS:COMPLETED]"

var tripTag = regexp.MustCompile(`\[Trip:\s*([^\]\s]+)\s*\]`)

// HasCompletionMarker reports whether notes carry the completion marker.
func HasCompletionMarker(notes string) bool {
	return strings.Contains(notes, CompletionMarker)
}

// WithCompletionMarker returns notes with the completion marker appended,
// separated by a single space when notes is non-empty. Notes that already
// carry the marker are returned unchanged.
func WithCompletionMarker(notes string) string {
	if HasCompletionMarker(notes) {
		return notes
	}
	if notes == "" {
		return CompletionMarker
	}
	return notes + " " + CompletionMarker
}

// TripIDFromRemarks extracts the id of the first "[Trip:<id>]" tag in remarks.
func TripIDFromRemarks(remarks string) (string, bool) {
	m := tripTag.FindStringSubmatch(remarks)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// NormalizeTrip fills the derived fields of a trip read from a source.
func NormalizeTrip(t domain.Trip) domain.Trip {
	t.CompletionMarked = HasCompletionMarker(t.Notes)
	return t
}

// NormalizeEntry fills the derived fields of a ledger entry read from a source.
func NormalizeEntry(e domain.LedgerEntry) domain.LedgerEntry {
	e.MarkerTripID, _ = TripIDFromRemarks(e.Remarks)
	return e
}
