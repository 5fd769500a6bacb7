package service

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/fleetbook/driverapp/internal/domain"
)

// NetBalance is the driver's Net Khata: money received by the driver minus
// money paid by the driver. Entries of any nature other than
// received_by_driver count as paid.
func NetBalance(entries []domain.LedgerEntry) decimal.Decimal {
	net := decimal.Zero
	for _, e := range entries {
		if e.Nature == domain.ReceivedByDriver {
			net = net.Add(e.Amount)
		} else {
			net = net.Sub(e.Amount)
		}
	}
	return net
}

// EntriesForTrip returns the entries linked to tripID, in the order given.
func EntriesForTrip(entries []domain.LedgerEntry, tripID string) []domain.LedgerEntry {
	out := []domain.LedgerEntry{}
	for _, e := range entries {
		if e.BelongsTo(tripID) {
			out = append(out, e)
		}
	}
	return out
}

// ExpenseTotalForTrip is the gross amount of all entries linked to tripID.
// Receipts are not netted against payments.
func ExpenseTotalForTrip(entries []domain.LedgerEntry, tripID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range EntriesForTrip(entries, tripID) {
		total = total.Add(e.Amount)
	}
	return total
}

// sortEntriesNewestFirst returns a copy of entries ordered by CreatedAt desc.
func sortEntriesNewestFirst(entries []domain.LedgerEntry) []domain.LedgerEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b domain.LedgerEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
