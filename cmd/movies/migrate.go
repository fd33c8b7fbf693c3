package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/movies/internal/config"
	"github.com/joestump/movies/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations (creates indexes on MongoDB)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(os.Stderr, cfg.LogLevel, cfg.IsProduction())

			be, err := openBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer be.Close()

			log.Info("migrations complete")
			return nil
		},
	}
}
