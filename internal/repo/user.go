package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fleetbook/driverapp/internal/domain"
)

// UserRepo resolves authenticated user ids to profiles.
type UserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID returns the user with the given id.
// Returns domain.ErrNotFound if no such user exists.
func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	if !validID(id) {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", domain.ErrNotFound)
	}

	const q = `
		SELECT id::text, name, role, assigned_truck_id::text
		FROM users
		WHERE id = @id`

	var (
		u       domain.User
		truckID *string
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&u.ID, &u.Name, &u.Role, &truckID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	u.AssignedTruckID = deref(truckID)
	return u, nil
}
