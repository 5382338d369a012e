package main

import (
	"fmt"

	"github.com/Vovarama1992/cinecampaign/internal/infra"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, zl, sync, err := bootstrap()
		if err != nil {
			return err
		}
		defer sync()

		pool, err := infra.NewPgxPool(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		applied, err := infra.Migrate(cmd.Context(), pool)
		if err != nil {
			return err
		}

		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "migrations applied",
			Fields:  map[string]any{"files": applied},
		})
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
		return nil
	},
}
