package bootstrap

import (
	"context"
	"fmt"

	"medical-center/config"
	"medical-center/internal/delivery/dto"
	"medical-center/internal/domain/entity"
	"medical-center/internal/infrastructure/database"
	"medical-center/internal/infrastructure/logger"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the medical-center command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "medical-center",
		Short:         "Clinic service for patients, appointments, examinations and clinical records.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global env file flag, available for all commands.
	root.PersistentFlags().String("env", ".env", "env file path")

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateAdminCommand())

	return root
}

func envPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Root().PersistentFlags().GetString("env")
	if err != nil {
		return "", fmt.Errorf("failed to get env flag: %w", err)
	}
	return path, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := envPath(cmd)
			if err != nil {
				return err
			}

			// Initialize application with all dependencies
			app, err := New(path)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Run the application
			return app.Run()
		},
	}
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.DB, logger.New(cfg.Log))
		},
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			steps, err := cmd.Flags().GetInt("steps")
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.DB, logger.New(cfg.Log), steps)
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func newCreateAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an elevated login",
		RunE: func(cmd *cobra.Command, args []string) error {
			rfc, _ := cmd.Flags().GetString("rfc")
			password, _ := cmd.Flags().GetString("password")

			path, err := envPath(cmd)
			if err != nil {
				return err
			}

			app, err := New(path)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Close()

			user, err := app.Users.Create(context.Background(), &dto.CreateUserRequest{
				Identifier:           rfc,
				Password:             password,
				PasswordConfirmation: password,
				Privilege:            entity.PrivilegeAdmin,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", user.Identifier, user.ID)
			return nil
		},
	}

	cmd.Flags().String("rfc", "", "RFC used as the login identifier")
	cmd.Flags().String("password", "", "initial password")
	_ = cmd.MarkFlagRequired("rfc")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := envPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}
