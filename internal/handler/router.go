package handler

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/movies/internal/auth"
	"github.com/joestump/movies/internal/logger"
	"github.com/joestump/movies/internal/metrics"
	"github.com/joestump/movies/internal/session"
	"github.com/joestump/movies/internal/store"
	"github.com/joestump/movies/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Sessions   *session.Manager
	Users      store.UserStoreIface
	Movies     store.MovieStoreIface
	Log        *slog.Logger
	Production bool
	// Ping checks the user directory backend for /healthz.
	Ping func(context.Context) error
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	b := &base{log: deps.Log, production: deps.Production}
	guards := auth.NewGuards(deps.Sessions, deps.Users, deps.Log)
	loadUser := auth.Use(guards.LoadUser)
	requireAuth := auth.Use(guards.RequireAuth)

	home := &HomeHandler{base: b}
	authH := &AuthHandler{base: b, sessions: deps.Sessions, users: deps.Users}
	movies := &MoviesHandler{base: b, sessions: deps.Sessions, movies: deps.Movies}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logger.Std(deps.Log),
		NoColor: deps.Production,
	}))
	r.Use(middleware.Recoverer)
	r.Use(methodOverride)
	r.Use(instrument)

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css and js/app.js directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))
	r.Get("/healthz", healthz(deps.Ping))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.LoadAndSave)

		r.Route("/auth", func(r chi.Router) {
			r.Use(deps.Sessions.FlashMiddleware)
			r.Get("/register", authH.RegisterForm)
			r.Post("/register", authH.Register)
			r.Get("/login", authH.LoginForm)
			r.Post("/login", authH.Login)
			r.Post("/logout", authH.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(loadUser, deps.Sessions.FlashMiddleware)
			r.Get("/", home.Index)
			r.Get("/movies", movies.Index)
			r.Get("/movies/{id}", movies.Show)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, deps.Sessions.FlashMiddleware)
			r.Get("/movies/new", movies.New)
			r.Post("/movies", movies.Create)
			r.Get("/movies/{id}/edit", movies.Edit)
			r.Put("/movies/{id}", movies.Update)
			r.Delete("/movies/{id}", movies.Delete)
		})
	})

	r.NotFound(deps.Sessions.LoadAndSave(loadUser(http.HandlerFunc(b.notFound))).ServeHTTP)

	return r
}

// methodOverride lets HTML forms send PUT and DELETE by POSTing a _method
// field. It runs before routing.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.PostFormValue("_method")); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request durations by matched route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.HandlerDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func healthz(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
