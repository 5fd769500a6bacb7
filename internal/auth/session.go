package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetbook/driverapp/internal/domain"
)

// UserLookup loads a user record by id.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// Session resolves the current user from the identity in the request
// context. It implements service.SessionSource.
type Session struct {
	users UserLookup
}

// NewSession constructs a Session backed by users.
func NewSession(users UserLookup) *Session {
	return &Session{users: users}
}

// CurrentUser returns the signed-in user, or nil when the context carries no
// identity or the user no longer exists.
func (s *Session) CurrentUser(ctx context.Context) (*domain.User, error) {
	id, ok := UserIDFrom(ctx)
	if !ok {
		return nil, nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth.Session.CurrentUser: %w", err)
	}
	return &u, nil
}
