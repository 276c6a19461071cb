package repositories

import (
	"errors"

	"exportease/internal/models"
)

var (
	// ErrDuplicateEmail is returned by Create when the store's unique
	// constraint on email rejects the insert. The constraint is the only
	// duplicate check; callers must not pre-check and then insert.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrUserNotFound is returned by lookups when no record matches.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
