package auth

import (
	"errors"

	"github.com/joestump/movies/internal/store"
)

// ErrForbidden means the user may not modify the resource.
var ErrForbidden = errors.New("forbidden")

// Authorize allows user to modify a resource created by owner. Resources with
// no owner cannot be modified by anyone.
func Authorize(user *store.User, owner string) error {
	if user == nil || owner == "" || user.ID != owner {
		return ErrForbidden
	}
	return nil
}
