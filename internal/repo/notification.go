package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetbook/driverapp/internal/auth"
	"github.com/fleetbook/driverapp/internal/domain"
)

// NotificationRepo is the Postgres Notification Source. Server notifications
// are scoped to the user id carried on the request context.
type NotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// ListMine returns up to limit notifications for the caller, most recently
// scheduled first. Without an authenticated caller the list is empty.
func (r *NotificationRepo) ListMine(ctx context.Context, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	userID, ok := auth.UserIDFrom(ctx)
	if !ok || !validID(userID) {
		return out, nil
	}

	const q = `
		SELECT id::text, title, body, scheduled_at, read
		FROM notifications
		WHERE user_id = @user_id
		ORDER BY scheduled_at DESC NULLS LAST, created_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListMine: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n := domain.Notification{Kind: domain.KindServer}
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.ScheduledAt, &n.Read); err != nil {
			return nil, fmt.Errorf("repo.NotificationRepo.ListMine: scan: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListMine: rows: %w", err)
	}
	return out, nil
}

// TruckDocuments returns the documents on file for a truck.
func (r *NotificationRepo) TruckDocuments(ctx context.Context, truckID string) ([]domain.TruckDocument, error) {
	docs := []domain.TruckDocument{}
	if !validID(truckID) {
		return docs, nil
	}

	const q = `
		SELECT id::text, truck_id::text, doc_type, expiry_date
		FROM truck_documents
		WHERE truck_id = @truck_id
		ORDER BY expiry_date ASC NULLS LAST`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"truck_id": truckID})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.TruckDocuments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d      domain.TruckDocument
			expiry *time.Time
		)
		if err := rows.Scan(&d.ID, &d.TruckID, &d.DocType, &expiry); err != nil {
			return nil, fmt.Errorf("repo.NotificationRepo.TruckDocuments: scan: %w", err)
		}
		d.ExpiryDate = expiry
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.TruckDocuments: rows: %w", err)
	}
	return docs, nil
}
