package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/movies/internal/config"
	"github.com/joestump/movies/internal/logger"
	"github.com/joestump/movies/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all movies with the sample catalog",
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

			n, err := seed.Run(cmd.Context(), be.Movies, be.Users, owner)
			if err != nil {
				return err
			}
			for _, m := range seed.Movies {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s (%d)\n", m.Name, m.Year)
			}
			log.Info("seeded movies", "count", n, "owner", owner)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "username or email of the user who will own the seeded movies")
	return cmd
}
