// Package email delivers week reports over SMTP or Microsoft Graph.
package email

import (
	"context"
	"errors"

	"github.com/chronicle-it/chronicle/internal/application/report"
	"github.com/chronicle-it/chronicle/internal/shared/config"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const (
	ProviderSMTP  = "smtp"
	ProviderGraph = "graph"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// NewMailer builds the mailer selected by cfg.Provider. When the selected
// provider lacks its settings, the returned mailer fails every send with
// ErrEmailServiceNotConfigured.
func NewMailer(cfg config.EmailConfig, ms config.MicrosoftConfig, log logger.Interface) report.Mailer {
	switch cfg.Provider {
	case ProviderGraph:
		if (ms.TenantID == "" && ms.TokenURL == "") || ms.ClientID == "" || ms.ClientSecret == "" || cfg.FromAddress == "" {
			log.Debugw("graph mail not configured, tenant, client credentials and from_address are required")
			return &unconfiguredMailer{logger: log}
		}
		log.Infow("email service initialized", "provider", ProviderGraph, "from", cfg.FromAddress)
		return NewGraphMailer(GraphConfig{
			TenantID:     ms.TenantID,
			ClientID:     ms.ClientID,
			ClientSecret: ms.ClientSecret,
			TokenURL:     ms.GetTokenURL(),
			BaseURL:      ms.GraphBaseURL,
			FromAddress:  cfg.FromAddress,
		}, log.Named("graph-mail"))
	default:
		if cfg.SMTPHost == "" {
			log.Debugw("email service not configured, smtp_host is empty")
			return &unconfiguredMailer{logger: log}
		}
		log.Infow("email service initialized",
			"provider", ProviderSMTP,
			"host", cfg.SMTPHost,
			"port", cfg.SMTPPort,
			"from", cfg.FromAddress,
		)
		return NewSMTPMailer(SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			FromAddress: cfg.FromAddress,
			FromName:    cfg.FromName,
		}, log.Named("smtp-mail"))
	}
}

type unconfiguredMailer struct {
	logger logger.Interface
}

func (u *unconfiguredMailer) Send(_ context.Context, msg report.Message) error {
	u.logger.Warnw("email service not configured, cannot send report", "subject", msg.Subject)
	return ErrEmailServiceNotConfigured
}
