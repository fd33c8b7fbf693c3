package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/movies/internal/config"
	"github.com/joestump/movies/internal/db"
	"github.com/joestump/movies/internal/store"
	"github.com/joestump/movies/internal/store/mongostore"
)

// backend is the opened user directory and movie store.
type backend struct {
	Users  store.UserStoreIface
	Movies store.MovieStoreIface
	// SQL is nil for MongoDB.
	SQL   *sqlx.DB
	Ping  func(context.Context) error
	Close func()
}

// openBackend connects to the configured database and brings its schema up
// to date.
func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	if cfg.DB.Driver == "mongodb" {
		database, err := db.NewMongo(ctx, cfg.DB.DSN, cfg.DB.Name)
		if err != nil {
			return nil, err
		}
		client := database.Client()
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			closeFn()
			return nil, err
		}
		log.Info("connected to mongodb", "database", cfg.DB.Name)
		return &backend{
			Users:  mongostore.NewUserStore(database),
			Movies: mongostore.NewMovieStore(database),
			Ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			Close:  closeFn,
		}, nil
	}

	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database, cfg.DB.Driver); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("connected to database", "driver", cfg.DB.Driver)
	return &backend{
		Users:  store.NewUserStore(database),
		Movies: store.NewMovieStore(database),
		SQL:    database,
		Ping:   database.PingContext,
		Close:  func() { _ = database.Close() },
	}, nil
}
