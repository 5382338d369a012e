package main

import (
	"fmt"
	"os"

	"github.com/Vovarama1992/cinecampaign/internal/config"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "cinecampaign",
	Short: "Marketing campaign backend for film distributors",
	Long: `cinecampaign runs the campaign API: films, campaigns with conflict
detection and cost estimates, chat, media plans and the lifecycle scheduler.
Without a subcommand it starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, quoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads config and builds the production logger every subcommand
// that talks to the database needs.
func bootstrap() (*config.Config, *logger.ZapLogger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config: %w", err)
	}

	zcore, err := zap.NewProduction()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("zap: %w", err)
	}
	zl := logger.NewZapLogger(zcore.Sugar())

	return cfg, zl, func() { _ = zcore.Sync() }, nil
}
