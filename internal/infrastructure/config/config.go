package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	sharedConfig "github.com/chronicle-it/chronicle/internal/shared/config"
)

type Config struct {
	Server      sharedConfig.ServerConfig      `mapstructure:"server"`
	Database    sharedConfig.DatabaseConfig    `mapstructure:"database"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger"`
	ServiceDesk sharedConfig.ServiceDeskConfig `mapstructure:"servicedesk"`
	Email       sharedConfig.EmailConfig       `mapstructure:"email"`
	Microsoft   sharedConfig.MicrosoftConfig   `mapstructure:"microsoft"`
	Report      sharedConfig.ReportConfig      `mapstructure:"report"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration from a config file and CHRONICLE_* environment variables.
// An empty path searches ./configs and its parents; a missing file is not an error.
func Load(env, path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("CHRONICLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Validate checks struct-level constraints declared on the config types.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.timezone", "Europe/Copenhagen")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "chronicle.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "chronicle")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "chronicle")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// ServiceDesk defaults
	v.SetDefault("servicedesk.url", "")
	v.SetDefault("servicedesk.api_key", "")
	v.SetDefault("servicedesk.sync_enabled", false)
	v.SetDefault("servicedesk.sync_interval_seconds", 300)
	v.SetDefault("servicedesk.request_timeout_seconds", 30)
	v.SetDefault("servicedesk.run_timeout_seconds", 0)
	v.SetDefault("servicedesk.max_attempts", 3)
	v.SetDefault("servicedesk.initial_backoff_ms", 500)
	v.SetDefault("servicedesk.max_backoff_ms", 10000)
	v.SetDefault("servicedesk.run_on_start", true)
	v.SetDefault("servicedesk.open_statuses", []string{"Åben", "I bero", "Tildelt", "I gang", "Afventer svar"})

	// Email defaults
	v.SetDefault("email.provider", "smtp")
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@chronicle.local")
	v.SetDefault("email.from_name", "Chronicle")
	v.SetDefault("email.recipients", []string{})

	// Microsoft Graph defaults (empty, must be configured)
	v.SetDefault("microsoft.tenant_id", "")
	v.SetDefault("microsoft.client_id", "")
	v.SetDefault("microsoft.client_secret", "")
	v.SetDefault("microsoft.graph_base_url", "https://graph.microsoft.com")

	// Report defaults
	v.SetDefault("report.title", "IT Ugelog")
	v.SetDefault("report.organization", "")
	v.SetDefault("report.history_weeks", 12)
}
