package main

import (
	"errors"
	"fmt"

	"github.com/Vovarama1992/cinecampaign/internal/domain"
	"github.com/Vovarama1992/cinecampaign/internal/infra"
	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}

		cfg, _, sync, err := bootstrap()
		if err != nil {
			return err
		}
		defer sync()

		pool, err := infra.NewPgxPool(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		auth := domain.NewAuthService(infra.NewPostgresUserRepo(pool), cfg.AuthSecret, cfg.TokenTTL)
		u, err := auth.CreateAdmin(cmd.Context(), adminEmail, adminName, adminPassword)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 8 characters")
}
