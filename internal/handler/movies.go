package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/movies/internal/auth"
	"github.com/joestump/movies/internal/metrics"
	"github.com/joestump/movies/internal/session"
	"github.com/joestump/movies/internal/store"
)

// MoviesPage is the template data for the movie list.
type MoviesPage struct {
	BasePage
	Movies []*store.Movie
}

// MoviePage is the template data for the movie detail page.
type MoviePage struct {
	BasePage
	Movie *store.Movie
}

// MovieFormPage is the template data for the new and edit forms. Movie is nil
// on the new form.
type MovieFormPage struct {
	BasePage
	Movie  *store.Movie
	Form   MovieForm
	Errors []string
}

// MoviesHandler serves the movie catalog.
type MoviesHandler struct {
	*base
	sessions *session.Manager
	movies   store.MovieStoreIface
}

// Index renders GET /movies.
func (h *MoviesHandler) Index(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List(r.Context())
	if err != nil {
		h.serverError(w, r, "list movies", err)
		return
	}
	render(w, http.StatusOK, "movies/index.html", MoviesPage{
		BasePage: h.newBasePage(r, "Movies"),
		Movies:   movies,
	})
}

// Show renders GET /movies/{id}.
func (h *MoviesHandler) Show(w http.ResponseWriter, r *http.Request) {
	m, ok := h.load(w, r)
	if !ok {
		return
	}
	render(w, http.StatusOK, "movies/show.html", MoviePage{
		BasePage: h.newBasePage(r, m.Name),
		Movie:    m,
	})
}

// New renders GET /movies/new.
func (h *MoviesHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "movies/new.html", MovieFormPage{BasePage: h.newBasePage(r, "Add Movie")})
}

// Create handles POST /movies. The movie is owned by the signed-in user.
func (h *MoviesHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUser(r.Context())
	form := movieFormFrom(r)
	if errs := validateForm(form); errs != nil {
		metrics.MovieMutations.WithLabelValues("create", "invalid").Inc()
		render(w, http.StatusUnprocessableEntity, "movies/new.html", MovieFormPage{
			BasePage: h.newBasePage(r, "Add Movie"),
			Form:     form,
			Errors:   errs,
		})
		return
	}

	m, err := h.movies.Create(r.Context(), form.Input(), user.ID)
	if err != nil {
		metrics.MovieMutations.WithLabelValues("create", "error").Inc()
		h.serverError(w, r, "create movie", err)
		return
	}
	metrics.MovieMutations.WithLabelValues("create", "success").Inc()
	h.log.Info("movie created", "movie_id", m.ID, "user_id", user.ID)
	h.sessions.SetFlash(r.Context(), session.Success, "Movie added")
	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

// Edit renders GET /movies/{id}/edit.
func (h *MoviesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	render(w, http.StatusOK, "movies/edit.html", MovieFormPage{
		BasePage: h.newBasePage(r, "Edit "+m.Name),
		Movie:    m,
		Form:     movieFormOf(m),
	})
}

// Update handles PUT /movies/{id}.
func (h *MoviesHandler) Update(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadOwned(w, r)
	if !ok {
		metrics.MovieMutations.WithLabelValues("update", "denied").Inc()
		return
	}
	form := movieFormFrom(r)
	if errs := validateForm(form); errs != nil {
		metrics.MovieMutations.WithLabelValues("update", "invalid").Inc()
		render(w, http.StatusUnprocessableEntity, "movies/edit.html", MovieFormPage{
			BasePage: h.newBasePage(r, "Edit "+m.Name),
			Movie:    m,
			Form:     form,
			Errors:   errs,
		})
		return
	}

	if _, err := h.movies.Update(r.Context(), m.ID, form.Input()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		metrics.MovieMutations.WithLabelValues("update", "error").Inc()
		h.serverError(w, r, "update movie", err)
		return
	}
	metrics.MovieMutations.WithLabelValues("update", "success").Inc()
	h.sessions.SetFlash(r.Context(), session.Success, "Movie updated")
	http.Redirect(w, r, "/movies/"+m.ID, http.StatusSeeOther)
}

// Delete handles DELETE /movies/{id}.
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m, ok := h.loadOwned(w, r)
	if !ok {
		metrics.MovieMutations.WithLabelValues("delete", "denied").Inc()
		return
	}
	if err := h.movies.Delete(r.Context(), m.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		metrics.MovieMutations.WithLabelValues("delete", "error").Inc()
		h.serverError(w, r, "delete movie", err)
		return
	}
	metrics.MovieMutations.WithLabelValues("delete", "success").Inc()
	h.log.Info("movie deleted", "movie_id", m.ID, "user_id", auth.MustUser(r.Context()).ID)
	h.sessions.SetFlash(r.Context(), session.Success, "Movie deleted")
	http.Redirect(w, r, "/movies", http.StatusSeeOther)
}

// load fetches the movie named in the URL, rendering 404 or 500 when it
// cannot.
func (h *MoviesHandler) load(w http.ResponseWriter, r *http.Request) (*store.Movie, bool) {
	m, err := h.movies.GetByID(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.notFound(w, r)
		return nil, false
	case err != nil:
		h.serverError(w, r, "get movie", err)
		return nil, false
	}
	return m, true
}

// loadOwned is load followed by the ownership check. A missing movie is
// reported as 404 before ownership is considered.
func (h *MoviesHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*store.Movie, bool) {
	m, ok := h.load(w, r)
	if !ok {
		return nil, false
	}
	user := auth.MustUser(r.Context())
	if err := auth.Authorize(user, m.CreatedBy); err != nil {
		h.log.Warn("ownership denied", "movie_id", m.ID, "user_id", user.ID)
		h.forbidden(w, r)
		return nil, false
	}
	return m, true
}
