package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/joestump/movies/internal/auth"
	"github.com/joestump/movies/internal/metrics"
	"github.com/joestump/movies/internal/session"
	"github.com/joestump/movies/internal/store"
)

// RegisterPage is the template data for the registration form.
type RegisterPage struct {
	BasePage
	Form   RegisterForm
	Errors []string
}

// LoginPage is the template data for the login form.
type LoginPage struct {
	BasePage
	Form   LoginForm
	Errors []string
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	*base
	sessions *session.Manager
	users    store.UserStoreIface
}

// RegisterForm renders GET /auth/register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "auth/register.html", RegisterPage{BasePage: h.newBasePage(r, "Register")})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := registerFormFrom(r)
	page := RegisterPage{BasePage: h.newBasePage(r, "Register"), Form: form}
	// Never echo passwords back into the form.
	page.Form.Password, page.Form.ConfirmPassword = "", ""

	if page.Errors = validateForm(form); page.Errors != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		render(w, http.StatusUnprocessableEntity, "auth/register.html", page)
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err == nil {
		_, err = h.users.Create(r.Context(), form.Username, form.Email, hash)
	}
	switch {
	case errors.Is(err, store.ErrDuplicateUser):
		metrics.Registrations.WithLabelValues("duplicate").Inc()
		page.Errors = []string{"Username or email already exists"}
		render(w, http.StatusUnprocessableEntity, "auth/register.html", page)
		return
	case err != nil:
		metrics.Registrations.WithLabelValues("error").Inc()
		h.log.Error("register user", "username", form.Username, "error", err)
		page.Errors = []string{"Error registering user. Please try again."}
		render(w, http.StatusInternalServerError, "auth/register.html", page)
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	h.sessions.SetFlash(r.Context(), session.Success, "Registration successful! Please log in.")
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// LoginForm renders GET /auth/login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "auth/login.html", LoginPage{BasePage: h.newBasePage(r, "Login")})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginFormFrom(r)
	page := LoginPage{BasePage: h.newBasePage(r, "Login"), Form: LoginForm{Login: form.Login}}

	if page.Errors = validateForm(form); page.Errors != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		render(w, http.StatusUnprocessableEntity, "auth/login.html", page)
		return
	}

	user, err := auth.Authenticate(r.Context(), h.users, form.Login, form.LoginPassword)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		page.Errors = []string{"Invalid username or password"}
		render(w, http.StatusUnauthorized, "auth/login.html", page)
		return
	}
	if err == nil {
		err = h.sessions.Login(r.Context(), user.ID, user.Username)
	}
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		h.log.Error("login", "login", form.Login, "error", err)
		page.Errors = []string{"Error logging in. Please try again."}
		render(w, http.StatusInternalServerError, "auth/login.html", page)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.log.Info("user logged in", "user_id", user.ID)
	h.sessions.SetFlash(r.Context(), session.Success, fmt.Sprintf("Welcome back, %s!", user.Username))
	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

// Logout handles POST /auth/logout. The flash is written after the session is
// destroyed, so it lands in a fresh anonymous session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.log.Error("destroy session on logout", "error", err)
	}
	h.sessions.SetFlash(r.Context(), session.Info, "You have been logged out successfully.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
