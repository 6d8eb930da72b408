package main

import (
	"fmt"
	"os"

	"hospital-workflow-backend/internal/database"
	"hospital-workflow-backend/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital-server",
		Short: "Hospital account, admission and billing workflow backend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(provisionAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newBase()
			if err != nil {
				return err
			}
			defer a.close()
			if err := database.Migrate(a.db); err != nil {
				return err
			}
			a.logger.Info("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert baseline rooms, departments and default staff when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newBase()
			if err != nil {
				return err
			}
			defer a.close()
			if err := database.Migrate(a.db); err != nil {
				return err
			}
			return database.SeedReferenceData(a.db, a.logger)
		},
	}
}

func provisionAdminCmd() *cobra.Command {
	var req service.AdminRequest
	cmd := &cobra.Command{
		Use:   "provision-admin",
		Short: "Create the first administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("ADMIN_PASSWORD")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			account, err := a.workflow.ProvisionFirstAdmin(req)
			if err != nil {
				return err
			}
			a.logger.Info("admin provisioned",
				zap.String("username", account.Username),
				zap.Uint("user_id", account.UserID),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", account.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "admin", "admin login name")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&req.Person.GivenName, "given-name", "System", "admin given name")
	cmd.Flags().StringVar(&req.Person.LastName, "last-name", "Administrator", "admin last name")
	return cmd
}
