package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/legacy"
)

// LedgerRepo is the Postgres Ledger Source.
type LedgerRepo struct {
	db db
}

// NewLedgerRepo constructs a LedgerRepo backed by the provided db connection.
func NewLedgerRepo(db db) *LedgerRepo {
	return &LedgerRepo{db: db}
}

// ledgerColumns is shared by the select and the insert's RETURNING clause.
// amount is read as text so it lands in a decimal without float rounding.
const ledgerColumns = `
	id::text, driver_id::text, amount::text, transaction_nature,
	counterparty_type, direction, remarks, trip_id::text, created_at`

// ListByDriver returns the driver's entries, newest first. An id that cannot
// exist yields an empty list rather than an error.
func (r *LedgerRepo) ListByDriver(ctx context.Context, driverID string) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	if !validID(driverID) {
		return entries, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT`+ledgerColumns+` FROM driver_ledger WHERE driver_id = @driver_id ORDER BY created_at DESC`,
		pgx.NamedArgs{"driver_id": driverID},
	)
	if err != nil {
		return nil, fmt.Errorf("repo.LedgerRepo.ListByDriver: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.LedgerRepo.ListByDriver: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LedgerRepo.ListByDriver: rows: %w", err)
	}
	return entries, nil
}

// Append inserts a new entry and returns it as stored.
// Returns domain.ErrValidation when the driver or trip id is malformed or
// names no existing row, or the amount breaks the column check.
func (r *LedgerRepo) Append(ctx context.Context, in domain.NewLedgerEntry) (domain.LedgerEntry, error) {
	if !validID(in.DriverID) {
		return domain.LedgerEntry{}, fmt.Errorf("repo.LedgerRepo.Append: driver id %q: %w", in.DriverID, domain.ErrValidation)
	}
	if in.TripID != "" && !validID(in.TripID) {
		return domain.LedgerEntry{}, fmt.Errorf("repo.LedgerRepo.Append: trip id %q: %w", in.TripID, domain.ErrValidation)
	}

	const q = `
		INSERT INTO driver_ledger
			(driver_id, amount, transaction_nature, counterparty_type, direction, remarks, trip_id)
		VALUES
			(@driver_id, @amount::numeric, @nature, @counterparty_type, @direction, @remarks, @trip_id)
		RETURNING` + ledgerColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id":         in.DriverID,
		"amount":            in.Amount.String(),
		"nature":            string(in.Nature),
		"counterparty_type": in.CounterpartyType,
		"direction":         in.Direction,
		"remarks":           in.Remarks,
		"trip_id":           nullableID(in.TripID),
	})
	e, err := scanEntry(row)
	if err != nil {
		switch pgCode(err) {
		case pgForeignKeyViolation:
			return domain.LedgerEntry{}, fmt.Errorf("repo.LedgerRepo.Append: %w: unknown driver or trip", domain.ErrValidation)
		case pgCheckViolation:
			return domain.LedgerEntry{}, fmt.Errorf("repo.LedgerRepo.Append: %w: amount out of range", domain.ErrValidation)
		}
		return domain.LedgerEntry{}, fmt.Errorf("repo.LedgerRepo.Append: %w", err)
	}
	return e, nil
}

func scanEntry(s scanner) (domain.LedgerEntry, error) {
	var (
		e      domain.LedgerEntry
		amount string
		nature string
		tripID *string
	)
	err := s.Scan(&e.ID, &e.DriverID, &amount, &nature,
		&e.CounterpartyType, &e.Direction, &e.Remarks, &tripID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LedgerEntry{}, domain.ErrNotFound
		}
		return domain.LedgerEntry{}, err
	}

	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	e.Nature = domain.Nature(nature)
	e.TripID = deref(tripID)
	return legacy.NormalizeEntry(e), nil
}
