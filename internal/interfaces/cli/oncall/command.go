package oncall

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/usecases"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oncall",
		Short: "Manage the on-call rota",
	}

	cmd.AddCommand(newAssignCommand())

	return cmd
}

func newAssignCommand() *cobra.Command {
	var week, notes string
	cmd := &cobra.Command{
		Use:   "assign <staff name>",
		Short: "Assign the on-call duty of a week",
		Args:  cobra.ExactArgs(1),
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

			duty, err := a.AssignOnCall().Execute(cmd.Context(), usecases.AssignOnCallCommand{
				Week:      key,
				StaffName: args[0],
				Notes:     notes,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s on call: %s\n", key, duty.StaffName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "ISO week, e.g. 2025-W03")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the duty")

	return cmd
}
