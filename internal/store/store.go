package store

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser is returned when the username or email is already registered.
	ErrDuplicateUser = errors.New("username or email already exists")
)

// UserStoreIface is the user directory. Implementations: *UserStore (SQL) and
// mongostore.UserStore.
type UserStoreIface interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// FindByUsernameOrEmail returns the first user whose username equals
	// username or whose email equals email.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*User, error)
	Delete(ctx context.Context, id string) error
}

// MovieStoreIface exposes all movie data operations.
// No handler may query the database directly.
type MovieStoreIface interface {
	Create(ctx context.Context, in MovieInput, createdBy string) (*Movie, error)
	GetByID(ctx context.Context, id string) (*Movie, error)
	List(ctx context.Context) ([]*Movie, error)
	Update(ctx context.Context, id string, in MovieInput) (*Movie, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAll deletes every movie and inserts movies in one step.
	ReplaceAll(ctx context.Context, movies []MovieInput, createdBy string) (int, error)
}

// isUniqueConstraintError checks whether err indicates a unique constraint violation.
// Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
