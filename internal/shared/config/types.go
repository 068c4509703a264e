package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Mode     string `mapstructure:"mode" validate:"oneof=debug release test"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects between a MySQL server and a local SQLite file.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ServiceDeskConfig configures the ServiceDesk Plus client and the sync loop.
type ServiceDeskConfig struct {
	URL                   string   `mapstructure:"url"`
	APIKey                string   `mapstructure:"api_key"`
	SyncEnabled           bool     `mapstructure:"sync_enabled"`
	SyncIntervalSeconds   int      `mapstructure:"sync_interval_seconds" validate:"gte=1"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"gte=1"`
	RunTimeoutSeconds     int      `mapstructure:"run_timeout_seconds" validate:"gte=0"`
	MaxAttempts           int      `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	InitialBackoffMs      int      `mapstructure:"initial_backoff_ms" validate:"gte=0"`
	MaxBackoffMs          int      `mapstructure:"max_backoff_ms" validate:"gte=0"`
	RunOnStart            bool     `mapstructure:"run_on_start"`
	OpenStatuses          []string `mapstructure:"open_statuses" validate:"min=1,dive,required"`
}

func (s *ServiceDeskConfig) SyncInterval() time.Duration {
	return time.Duration(s.SyncIntervalSeconds) * time.Second
}

func (s *ServiceDeskConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

func (s *ServiceDeskConfig) RunTimeout() time.Duration {
	return time.Duration(s.RunTimeoutSeconds) * time.Second
}

func (s *ServiceDeskConfig) InitialBackoff() time.Duration {
	return time.Duration(s.InitialBackoffMs) * time.Millisecond
}

func (s *ServiceDeskConfig) MaxBackoff() time.Duration {
	return time.Duration(s.MaxBackoffMs) * time.Millisecond
}

// Configured reports whether the client has what it needs to talk to the remote.
func (s *ServiceDeskConfig) Configured() bool {
	return s.URL != "" && s.APIKey != ""
}

type EmailConfig struct {
	Provider     string   `mapstructure:"provider" validate:"oneof=smtp graph"`
	SMTPHost     string   `mapstructure:"smtp_host"`
	SMTPPort     int      `mapstructure:"smtp_port"`
	SMTPUser     string   `mapstructure:"smtp_user"`
	SMTPPassword string   `mapstructure:"smtp_password"`
	FromAddress  string   `mapstructure:"from_address"`
	FromName     string   `mapstructure:"from_name"`
	Recipients   []string `mapstructure:"recipients" validate:"dive,email"`
}

// MicrosoftConfig holds the Entra ID app registration used for Graph mail.
type MicrosoftConfig struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	GraphBaseURL string `mapstructure:"graph_base_url"`
	TokenURL     string `mapstructure:"token_url"`
}

func (m *MicrosoftConfig) GetTokenURL() string {
	if m.TokenURL != "" {
		return m.TokenURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", m.TenantID)
}

type ReportConfig struct {
	Title        string `mapstructure:"title"`
	Organization string `mapstructure:"organization"`
	HistoryWeeks int    `mapstructure:"history_weeks" validate:"gte=1,lte=104"`
}
