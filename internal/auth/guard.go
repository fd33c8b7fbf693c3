// Package auth resolves the signed-in user for a request and decides what
// they may do.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joestump/movies/internal/metrics"
	"github.com/joestump/movies/internal/session"
	"github.com/joestump/movies/internal/store"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/auth/login"

const (
	resultResolved     = "resolved"
	resultAnonymous    = "anonymous"
	resultStaleSession = "stale_session"
	resultLookupError  = "lookup_error"
)

type contextKey string

const UserContextKey contextKey = "user"

// Sessions is the part of the session manager the guards need.
type Sessions interface {
	Get(ctx context.Context) session.Session
	Destroy(ctx context.Context) error
}

// UserLookup resolves a session's user id.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*store.User, error)
}

// Guards builds the LoadUser and RequireAuth guards over a session manager
// and a user directory.
type Guards struct {
	sessions Sessions
	users    UserLookup
	log      *slog.Logger
}

func NewGuards(sessions Sessions, users UserLookup, log *slog.Logger) *Guards {
	return &Guards{sessions: sessions, users: users, log: log}
}

// resolve looks up the session's user. It returns the result label and, for
// resultResolved, the user.
func (g *Guards) resolve(r *http.Request, guard string) (*store.User, string) {
	ctx := r.Context()
	sess := g.sessions.Get(ctx)
	if !sess.Authenticated() {
		return nil, resultAnonymous
	}

	user, err := g.users.GetByID(ctx, sess.UserID)
	switch {
	case err == nil:
		return user, resultResolved
	case errors.Is(err, store.ErrNotFound):
		g.log.Warn("session references missing user", "guard", guard, "user_id", sess.UserID)
		return nil, resultStaleSession
	default:
		g.log.Error("user lookup failed", "guard", guard, "user_id", sess.UserID, "error", err)
		return nil, resultLookupError
	}
}

// LoadUser attaches the signed-in user when there is one. It always
// continues; failures leave the request anonymous.
func (g *Guards) LoadUser(r *http.Request) Outcome {
	user, result := g.resolve(r, "load_user")
	metrics.AuthGuardOutcomes.WithLabelValues("load_user", result).Inc()
	if user == nil {
		return Continue(r.Context())
	}
	return Continue(WithUser(r.Context(), user))
}

// RequireAuth continues only with a live user attached. A session pointing at
// a deleted user is destroyed. A failed lookup keeps the session but still
// redirects.
func (g *Guards) RequireAuth(r *http.Request) Outcome {
	user, result := g.resolve(r, "require_auth")
	metrics.AuthGuardOutcomes.WithLabelValues("require_auth", result).Inc()

	switch result {
	case resultResolved:
		return Continue(WithUser(r.Context(), user))
	case resultStaleSession:
		if err := g.sessions.Destroy(r.Context()); err != nil {
			g.log.Error("destroy stale session", "error", err)
		}
	}
	return Redirect(LoginPath)
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// MustUser is UserFromContext for handlers mounted behind RequireAuth. It
// panics when there is no user.
func MustUser(ctx context.Context) *store.User {
	u := UserFromContext(ctx)
	if u == nil {
		panic("auth: no user in context; route is missing RequireAuth")
	}
	return u
}
