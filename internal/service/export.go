package service

import (
	"time"

	"github.com/fleetbook/driverapp/internal/domain"
)

// ExportRows flattens a snapshot into one row per ledger entry linked to a
// trip. Trips without linked entries contribute one row with empty entry
// fields; entries linked to no loaded trip follow at the end with empty trip
// fields. Trip rows keep the snapshot's most-recent-first order.
func ExportRows(s Snapshot) []domain.ExportRow {
	rows := []domain.ExportRow{}
	linked := make(map[string]bool)

	for _, v := range s.Trips {
		base := domain.ExportRow{
			TripID:      v.ID,
			TripStatus:  v.Status,
			Source:      v.SourceLabel,
			Destination: v.DestinationLabel,
		}
		if v.StartTime != nil {
			base.TripDate = v.StartTime.Format(time.DateOnly)
		}

		entries := EntriesForTrip(s.Ledger, v.ID)
		if len(entries) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range entries {
			linked[e.ID] = true
			rows = append(rows, withEntry(base, e))
		}
	}

	for _, e := range s.Ledger {
		if !linked[e.ID] {
			rows = append(rows, withEntry(domain.ExportRow{}, e))
		}
	}
	return rows
}

func withEntry(row domain.ExportRow, e domain.LedgerEntry) domain.ExportRow {
	row.EntryID = e.ID
	row.Nature = e.Nature
	row.Amount = e.Amount
	row.Remarks = e.Remarks
	if !e.CreatedAt.IsZero() {
		created := e.CreatedAt
		row.CreatedAt = &created
	}
	return row
}
