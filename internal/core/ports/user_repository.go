package ports

import (
	"context"
	"time"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// UserRepository defines persistence for HR/admin identities.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// A duplicate email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionStore keeps the single live refresh-token id per user.
type SessionStore interface {
	// Save replaces the user's current session with tokenID for ttl.
	Save(ctx context.Context, userID, tokenID string, ttl time.Duration) error
	// Rotate replaces the live token id with next only while it still equals
	// expect. It reports false when expect is no longer the live session.
	Rotate(ctx context.Context, userID, expect, next string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, userID string) error
}
