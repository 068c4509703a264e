package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
)

var steps int

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long: `Manage the database schema. MySQL uses the embedded versioned goose scripts;
SQLite is migrated from the gorm models.`,
	}

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Args:  cobra.NoArgs,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Migrations().Up(a.DB); err != nil {
		a.Logger.Errorw("migration failed", "error", err)
		return err
	}

	a.Logger.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Migrations().Down(a.DB, steps); err != nil {
		a.Logger.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	a.Logger.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	m := a.Migrations()
	fmt.Fprintf(cmd.OutOrStdout(), "Migration strategy: %s (driver %s)\n", m.Strategy().Name(), a.Config.Database.Driver)

	if err := m.Status(a.DB); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}
