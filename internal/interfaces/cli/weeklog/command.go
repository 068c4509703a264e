package weeklog

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/application/weeklog/usecases"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
)

type setFlags struct {
	week        string
	newCount    int
	closed      int
	open        int
	summary     string
	attendees   string
	minutes     string
	skipMeeting string
	author      string
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weeklog",
		Short: "Edit and inspect week logs",
	}

	cmd.AddCommand(newSetCommand(), newShowCommand(), newListCommand(), newDeleteCommand())

	return cmd
}

func newSetCommand() *cobra.Command {
	f := &setFlags{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manually edit a week log",
		Long: `Create or edit the week log of --week (default: current week). Only the
flags given are changed. Manual edits never update the last sync time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.week, "week", "w", "", "ISO week, e.g. 2025-W03")
	cmd.Flags().IntVar(&f.newCount, "new", 0, "Helpdesk tickets created")
	cmd.Flags().IntVar(&f.closed, "closed", 0, "Helpdesk tickets closed")
	cmd.Flags().IntVar(&f.open, "open", 0, "Helpdesk tickets open")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Week summary")
	cmd.Flags().StringVar(&f.attendees, "attendees", "", "Monday meeting attendees")
	cmd.Flags().StringVar(&f.minutes, "minutes", "", "Monday meeting minutes")
	cmd.Flags().StringVar(&f.skipMeeting, "skip-meeting", "", "Mark the meeting as cancelled with a reason")
	cmd.Flags().StringVar(&f.author, "author", "", "Author recorded on new week logs")

	return cmd
}

func runSet(cmd *cobra.Command, f *setFlags) error {
	key, err := app.ParseWeek(f.week)
	if err != nil {
		return err
	}

	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	command := usecases.SetWeekLogCommand{Week: key, Author: f.author}
	flags := cmd.Flags()
	if flags.Changed("new") {
		command.New = &f.newCount
	}
	if flags.Changed("closed") {
		command.Closed = &f.closed
	}
	if flags.Changed("open") {
		command.Open = &f.open
	}
	if flags.Changed("summary") {
		command.Summary = &f.summary
	}
	if flags.Changed("attendees") {
		command.MeetingAttendees = &f.attendees
	}
	if flags.Changed("minutes") {
		command.MeetingMinutes = &f.minutes
	}
	if flags.Changed("skip-meeting") {
		command.SkipMeetingReason = &f.skipMeeting
	}

	result, err := a.SetWeekLog().Execute(cmd.Context(), command)
	if err != nil {
		return err
	}

	verb := "updated"
	if result.Created {
		verb = "created"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", result.WeekLog.Week, verb)
	return nil
}

func newShowCommand() *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a week log as JSON",
		Args:  cobra.NoArgs,
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

			w, err := a.GetWeekLog().Execute(cmd.Context(), key)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(w)
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "ISO week, e.g. 2025-W03")

	return cmd
}

func newListCommand() *cobra.Command {
	var (
		year     int
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored week logs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load()
			if err != nil {
				return err
			}
			defer a.Close()

			query := usecases.ListWeekLogsQuery{Page: page, PageSize: pageSize}
			if cmd.Flags().Changed("year") {
				query.Year = &year
			}

			result, err := a.ListWeekLogs().Execute(cmd.Context(), query)
			if err != nil {
				return err
			}
			printWeekLogs(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only weeks of this ISO year")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Weeks per page (max 100)")

	return cmd
}

func printWeekLogs(w io.Writer, result *usecases.ListWeekLogsResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEEK\tNEW\tCLOSED\tOPEN\tSYNCED")
	for _, l := range result.WeekLogs {
		synced := "-"
		if l.LastSyncedAt != nil {
			synced = biztime.FormatInBizTimezone(*l.LastSyncedAt, "2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Week, count(l.HelpdeskNew), count(l.HelpdeskClosed), count(l.HelpdeskOpen), synced)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d, %d of %d weeks\n", result.Page, len(result.WeekLogs), result.Total)
}

func count(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func newDeleteCommand() *cobra.Command {
	var week string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a week log and its entries",
		Args:  cobra.NoArgs,
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

			if err := a.DeleteWeekLog().Execute(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "ISO week, e.g. 2025-W03")
	_ = cmd.MarkFlagRequired("week")

	return cmd
}
