// Package session wraps an scs session manager with the two things the app
// keeps in a session: the signed-in user and one-shot flash messages.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
)

const (
	CookieName = "session"

	userIDKey   = "user_id"
	usernameKey = "username"
)

// Options configures cookie and expiry behaviour.
type Options struct {
	Lifetime    time.Duration // absolute cap
	IdleTimeout time.Duration // sliding expiry
	Secure      bool
}

// Session is a read-only snapshot of the authentication state of the
// current request's session.
type Session struct {
	UserID   string
	Username string
}

// Authenticated reports whether the session carries a user id.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Manager owns the session lifecycle. Session data is loaded from the store
// by LoadAndSave and committed once when the handler returns.
type Manager struct {
	sm *scs.SessionManager
}

// New creates a Manager persisting to store.
func New(store scs.Store, opts Options) *Manager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = opts.Lifetime
	sm.IdleTimeout = opts.IdleTimeout
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure
	sm.Cookie.Path = "/"
	return &Manager{sm: sm}
}

// LoadAndSave must wrap every route that reads or writes session data.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.sm.LoadAndSave(next)
}

// Get returns the session snapshot for ctx.
func (m *Manager) Get(ctx context.Context) Session {
	return Session{
		UserID:   m.sm.GetString(ctx, userIDKey),
		Username: m.sm.GetString(ctx, usernameKey),
	}
}

// Login renews the session token and records the user. Flash messages set
// before the renewal are kept.
func (m *Manager) Login(ctx context.Context, userID, username string) error {
	if err := m.sm.RenewToken(ctx); err != nil {
		return err
	}
	m.sm.Put(ctx, userIDKey, userID)
	m.sm.Put(ctx, usernameKey, username)
	return nil
}

// Destroy deletes the session from the store and expires the cookie. Values
// written afterwards in the same request start a new anonymous session.
func (m *Manager) Destroy(ctx context.Context) error {
	return m.sm.Destroy(ctx)
}
