package report

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	reportApp "github.com/chronicle-it/chronicle/internal/application/report"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export or email the weekly report",
	}

	cmd.AddCommand(newExportCommand(), newEmailCommand())

	return cmd
}

func newExportCommand() *cobra.Command {
	var week, format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the weekly report as Markdown, HTML or PDF",
		Long: `Render the report of --week (default: current week). Without --out the file
is written to the working directory as ugelog_<year>_uge<week>.<ext>; "-"
writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := app.ParseWeek(week)
			if err != nil {
				return err
			}

			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.ExportReport().Execute(cmd.Context(), key, reportApp.ExportFormat(format))
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(result.Data)
				return err
			}
			if out == "" {
				out = result.Filename
			}
			if err := os.WriteFile(out, result.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(result.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "ISO week, e.g. 2025-W03")
	cmd.Flags().StringVarP(&format, "format", "f", string(reportApp.FormatMarkdown), "Output format: md, html or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path, - for stdout")

	return cmd
}

func newEmailCommand() *cobra.Command {
	var (
		week   string
		format string
		to     []string
	)
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Email the weekly report",
		Long: `Send the report of --week (default: current week) as an HTML body, a PDF
attachment or both. Recipients default to email.recipients.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := app.ParseWeek(week)
			if err != nil {
				return err
			}

			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.SendReport().Execute(cmd.Context(), reportApp.SendWeekReportCommand{
				Week:       key,
				Format:     reportApp.EmailFormat(format),
				Recipients: to,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sent %q (%s) to %d recipient(s)\n",
				result.Subject, result.Format.Label(), result.Recipients)
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "ISO week, e.g. 2025-W03")
	cmd.Flags().StringVarP(&format, "format", "f", string(reportApp.EmailHTML), "Email format: html, pdf or both")
	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipients, overrides email.recipients")

	return cmd
}
