package scheduler

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk/usecases"
	"github.com/chronicle-it/chronicle/internal/infrastructure/metrics"
	syncScheduler "github.com/chronicle-it/chronicle/internal/infrastructure/scheduler"
	"github.com/chronicle-it/chronicle/internal/interfaces/cli/app"
	httpRouter "github.com/chronicle-it/chronicle/internal/interfaces/http"
	"github.com/chronicle-it/chronicle/internal/interfaces/http/handlers"
)

const shutdownTimeout = 30 * time.Second

var autoMigrate bool

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the periodic helpdesk sync",
		Long: `Run the helpdesk reconciliation on the configured interval until SIGINT or
SIGTERM, serving /healthz, /metrics and /sync/status on the server address.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations before starting")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.Logger
	cfg := a.Config

	if autoMigrate {
		if err := a.Migrations().Up(a.DB); err != nil {
			return err
		}
	}

	syncMetrics := metrics.NewSyncMetrics()

	var (
		sched  *syncScheduler.SyncScheduler
		status handlers.SyncStatusProvider
	)
	reconciler, err := a.Reconciler(usecases.WithObserver(syncMetrics))
	switch {
	case errors.Is(err, app.ErrSyncDisabled), errors.Is(err, app.ErrSyncNotConfigured):
		log.Warnw("helpdesk sync not started", "reason", err)
	case err != nil:
		return err
	default:
		sched, err = syncScheduler.NewSyncScheduler(reconciler, log.Named("scheduler"),
			syncScheduler.WithRunTimeout(cfg.ServiceDesk.RunTimeout()),
			syncScheduler.WithRunOnStart(cfg.ServiceDesk.RunOnStart),
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := sched.Close(); err != nil {
				log.Warnw("failed to shut down scheduler", "error", err)
			}
		}()
		if err := sched.Start(cfg.ServiceDesk.SyncInterval()); err != nil {
			return err
		}
		status = sched
	}

	var server *httpRouter.Server
	if cfg.Server.Port > 0 {
		gin.SetMode(cfg.Server.Mode)
		gin.DefaultWriter = io.Discard

		router := httpRouter.NewRouter(handlers.NewOpsHandler(status, syncMetrics.Registry()), log.Named("http"))
		router.SetupRoutes()
		server = httpRouter.NewServer(cfg.Server.GetAddr(), router.GetEngine(), log.Named("http"))
		server.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infow("shutting down", "signal", sig.String())

	if sched != nil {
		sched.Stop()
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Errorw("ops server forced to shutdown", "error", err)
		}
	}

	log.Infow("scheduler exited gracefully")
	return nil
}
