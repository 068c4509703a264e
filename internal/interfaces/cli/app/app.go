// Package app wires configuration, logging, storage and use cases for the
// CLI commands.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk/usecases"
	"github.com/chronicle-it/chronicle/internal/application/report"
	weeklogUsecases "github.com/chronicle-it/chronicle/internal/application/weeklog/usecases"
	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/infrastructure/config"
	"github.com/chronicle-it/chronicle/internal/infrastructure/database"
	"github.com/chronicle-it/chronicle/internal/infrastructure/email"
	"github.com/chronicle-it/chronicle/internal/infrastructure/migration"
	"github.com/chronicle-it/chronicle/internal/infrastructure/pdf"
	"github.com/chronicle-it/chronicle/internal/infrastructure/repository"
	"github.com/chronicle-it/chronicle/internal/infrastructure/servicedesk"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
	"github.com/chronicle-it/chronicle/internal/shared/db"
	apperrors "github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
	"github.com/chronicle-it/chronicle/internal/shared/services/markdown"
)

var (
	ErrSyncDisabled      = errors.New("helpdesk sync is disabled (servicedesk.sync_enabled)")
	ErrSyncNotConfigured = errors.New("helpdesk sync is not configured (servicedesk.url and servicedesk.api_key are required)")
)

var (
	env        string
	configPath string
)

// RegisterFlags adds the flags every command shares to the root command.
func RegisterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// App holds the process-wide dependencies built from configuration.
type App struct {
	Config   *config.Config
	Logger   logger.Interface
	DB       *gorm.DB
	WeekLogs *repository.WeekLogRepository
	OnCall   *repository.OnCallRepository
	Tx       *db.TransactionManager
}

// Load reads configuration and opens the database.
func Load() (*App, error) {
	cfg, err := config.Load(mapEnvToMode(env), configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gdb := database.Get()

	return &App{
		Config:   cfg,
		Logger:   log,
		DB:       gdb,
		WeekLogs: repository.NewWeekLogRepository(gdb),
		OnCall:   repository.NewOnCallRepository(gdb),
		Tx:       db.NewTransactionManager(gdb),
	}, nil
}

func (a *App) Close() {
	if err := database.Close(); err != nil {
		a.Logger.Warnw("failed to close database", "error", err)
	}
}

func (a *App) Migrations() *migration.Manager {
	return migration.NewManager(a.Config.Database.Driver, a.Logger)
}

// RetryPolicy maps the servicedesk settings onto the reconciliation policy.
func (a *App) RetryPolicy() usecases.RetryPolicy {
	sd := a.Config.ServiceDesk
	return usecases.RetryPolicy{
		MaxAttempts:  sd.MaxAttempts,
		InitialDelay: sd.InitialBackoff(),
		MaxDelay:     sd.MaxBackoff(),
		Multiplier:   2,
	}
}

// Reconciler builds the reconciliation use case. It fails when sync is
// switched off or the remote is not configured.
func (a *App) Reconciler(opts ...usecases.Option) (*usecases.ReconcileUseCase, error) {
	sd := a.Config.ServiceDesk
	if !sd.SyncEnabled {
		return nil, ErrSyncDisabled
	}
	if !sd.Configured() {
		return nil, ErrSyncNotConfigured
	}
	client := servicedesk.NewClient(sd, a.Logger.Named("servicedesk"))
	return usecases.NewReconcileUseCase(client, a.WeekLogs, a.RetryPolicy(), a.Logger.Named("reconcile"), opts...), nil
}

func (a *App) SetWeekLog() *weeklogUsecases.SetWeekLogUseCase {
	return weeklogUsecases.NewSetWeekLogUseCase(a.WeekLogs, a.Tx, a.Logger)
}

func (a *App) GetWeekLog() *weeklogUsecases.GetWeekLogUseCase {
	return weeklogUsecases.NewGetWeekLogUseCase(a.WeekLogs, a.OnCall, a.Logger)
}

func (a *App) ListWeekLogs() *weeklogUsecases.ListWeekLogsUseCase {
	return weeklogUsecases.NewListWeekLogsUseCase(a.WeekLogs, a.Logger)
}

func (a *App) DeleteWeekLog() *weeklogUsecases.DeleteWeekLogUseCase {
	return weeklogUsecases.NewDeleteWeekLogUseCase(a.WeekLogs, a.Tx, a.Logger)
}

func (a *App) AssignOnCall() *weeklogUsecases.AssignOnCallUseCase {
	return weeklogUsecases.NewAssignOnCallUseCase(a.OnCall, a.Logger)
}

func (a *App) ImportWeekLogs() *weeklogUsecases.ImportWeekLogsUseCase {
	return weeklogUsecases.NewImportWeekLogsUseCase(a.WeekLogs, a.OnCall, a.Tx, a.Logger.Named("import"))
}

func (a *App) assembler() *report.Assembler {
	return report.NewAssembler(a.WeekLogs, a.OnCall, report.Settings{
		Title:        a.Config.Report.Title,
		Organization: a.Config.Report.Organization,
		HistoryWeeks: a.Config.Report.HistoryWeeks,
	}, a.Logger.Named("report"))
}

func (a *App) ExportReport() *report.ExportWeekReportUseCase {
	return report.NewExportWeekReportUseCase(a.assembler(), markdown.NewService(), pdf.NewRenderer(), a.Logger.Named("report"))
}

func (a *App) SendReport() *report.SendWeekReportUseCase {
	mailer := email.NewMailer(a.Config.Email, a.Config.Microsoft, a.Logger.Named("email"))
	return report.NewSendWeekReportUseCase(
		a.assembler(),
		markdown.NewService(),
		pdf.NewRenderer(),
		mailer,
		a.Config.Email.Recipients,
		a.Logger.Named("report"),
	)
}

func mapEnvToMode(environment string) string {
	switch environment {
	case "":
		return ""
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// ExitCode maps a command error to the process exit status: 2 for rejected
// input, 1 for everything else.
func ExitCode(err error) int {
	if apperrors.IsValidationError(err) {
		return 2
	}
	return 1
}

// ParseWeek parses a --week flag. Empty means the current ISO week.
func ParseWeek(s string) (vo.WeekKey, error) {
	if s == "" {
		return vo.WeekKeyAt(time.Now()), nil
	}
	return vo.ParseWeekKey(s)
}
