package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/joestump/movies/internal/store"
)

// ErrInvalidCredentials is returned for an unknown login or a wrong password.
// Callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// BcryptCost is the work factor for new password hashes.
var BcryptCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when the login is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	b, _ := bcrypt.GenerateFromPassword([]byte("movies-dummy-password"), BcryptCost)
	return b
})

// CredentialLookup finds a user by username or email.
type CredentialLookup interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*store.User, error)
}

// Authenticate verifies login (a username or an email address) and password.
func Authenticate(ctx context.Context, users CredentialLookup, login, password string) (*store.User, error) {
	login = strings.TrimSpace(login)
	user, err := users.FindByUsernameOrEmail(ctx, login, strings.ToLower(login))
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
