package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/spf13/cobra"

	"github.com/joestump/movies/internal/build"
	"github.com/joestump/movies/internal/config"
	"github.com/joestump/movies/internal/db"
	"github.com/joestump/movies/internal/handler"
	"github.com/joestump/movies/internal/logger"
	"github.com/joestump/movies/internal/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(os.Stderr, cfg.LogLevel, cfg.IsProduction())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer be.Close()

			sessionStore, closeStore, err := openSessionStore(cfg, be)
			if err != nil {
				return err
			}
			defer closeStore()

			router := handler.NewRouter(handler.Deps{
				Sessions: session.New(sessionStore, session.Options{
					Lifetime:    cfg.Session.Lifetime,
					IdleTimeout: cfg.Session.IdleTimeout,
					Secure:      cfg.Session.Secure,
				}),
				Users:      be.Users,
				Movies:     be.Movies,
				Log:        log,
				Production: cfg.IsProduction(),
				Ping:       be.Ping,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				ErrorLog:          logger.Std(log),
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", "addr", cfg.HTTP.Addr, "env", cfg.Env, "version", build.Version)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// openSessionStore picks the scs store named by session.store.
func openSessionStore(cfg *config.Config, be *backend) (scs.Store, func(), error) {
	noop := func() {}
	switch cfg.Session.Store {
	case "db":
		if be.SQL == nil {
			return nil, noop, fmt.Errorf("session store %q needs a SQL database", cfg.Session.Store)
		}
		st, err := session.NewSQLStore(be.SQL, cfg.DB.Driver)
		return st, noop, err
	case "redis":
		client, err := db.NewRedis(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			return nil, noop, err
		}
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		return session.NewMemoryStore(), noop, nil
	}
}
