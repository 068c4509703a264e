package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/importcmd"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/migrate"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/oncall"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/report"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/scheduler"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/synccmd"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/weeklog"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "chronicle",
		Short:        "Chronicle - IT weekly logbook",
		Long:         `Chronicle keeps the IT department's weekly log and reconciles helpdesk ticket counts from ServiceDesk Plus.`,
		SilenceUsage: true,
	}

	app.RegisterFlags(rootCmd)

	rootCmd.AddCommand(
		scheduler.NewCommand(),
		synccmd.NewCommand(),
		migrate.NewCommand(),
		weeklog.NewCommand(),
		oncall.NewCommand(),
		importcmd.NewCommand(),
		report.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(app.ExitCode(err))
	}
}
