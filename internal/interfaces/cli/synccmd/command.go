package synccmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk/usecases"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
)

var all bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile helpdesk ticket counts once",
		Long: `Fetch new, closed and open ticket counts for the current ISO week and store
them. With --all every stored week is reconciled; open counts are only
written for the current week. Exits non-zero if any week fails.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reconcile every stored week")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	reconciler, err := a.Reconciler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now()
	out := cmd.OutOrStdout()

	if !all {
		result := reconciler.RunOnce(ctx, now)
		PrintResult(out, result)
		if !result.Succeeded() {
			return fmt.Errorf("sync of %s failed: %w", result.Week, result.Err)
		}
		return nil
	}

	bulk := reconciler.RunForAllWeeks(ctx, now)
	for _, r := range bulk.Results {
		PrintResult(out, r)
	}
	fmt.Fprintf(out, "%d succeeded, %d failed\n", bulk.Succeeded, bulk.Failed)

	if bulk.Err != nil {
		return fmt.Errorf("bulk sync aborted: %w", bulk.Err)
	}
	if bulk.Failed > 0 {
		return fmt.Errorf("%d of %d weeks failed to sync", bulk.Failed, len(bulk.Results))
	}
	return nil
}

// PrintResult writes one line per reconciled week.
func PrintResult(w io.Writer, r usecases.SyncResult) {
	if !r.Succeeded() {
		fmt.Fprintf(w, "%s  FAILED  kind=%s attempts=%d: %v\n", r.Week, r.FailureKind, r.Attempts, r.Err)
		return
	}
	open := "-"
	if r.OpenWritten {
		open = fmt.Sprint(r.Counts.Open)
	}
	fmt.Fprintf(w, "%s  ok  new=%d closed=%d open=%s attempts=%d\n",
		r.Week, r.Counts.New, r.Counts.Closed, open, r.Attempts)
}
