package importcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/usecases"
	"github.com/chronicle-it/chronicle/internal/infrastructure/importer"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
)

var overwrite bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import historical week logs from YAML",
		Long: `Load week logs from a YAML file with a top-level "weeks" list. Existing
weeks are skipped unless --overwrite is given. Each week is imported on its
own; failures are listed and make the command exit non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Update weeks that already exist")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	weeks, err := importer.DecodeFile(args[0])
	if err != nil {
		return err
	}

	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.ImportWeekLogs().Execute(cmd.Context(), usecases.ImportWeekLogsCommand{
		Weeks:     weeks,
		Overwrite: overwrite,
	})

	out := cmd.OutOrStdout()
	for _, f := range result.Failures {
		fmt.Fprintf(out, "%s  FAILED  %v\n", f.Week, f.Err)
	}
	fmt.Fprintf(out, "%d created, %d updated, %d skipped, %d failed\n",
		result.Created, result.Updated, result.Skipped, len(result.Failures))

	if len(result.Failures) > 0 {
		return fmt.Errorf("%d of %d weeks failed to import", len(result.Failures), len(weeks))
	}
	return nil
}
