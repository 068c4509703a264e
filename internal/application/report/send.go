package report

import (
	"context"
	"fmt"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

type EmailFormat string

const (
	EmailHTML EmailFormat = "html"
	EmailPDF  EmailFormat = "pdf"
	EmailBoth EmailFormat = "both"
)

func (f EmailFormat) IsValid() bool {
	return f == EmailHTML || f == EmailPDF || f == EmailBoth
}

func (f EmailFormat) Label() string {
	switch f {
	case EmailHTML:
		return "HTML"
	case EmailPDF:
		return "PDF"
	default:
		return "HTML + PDF"
	}
}

type SendWeekReportCommand struct {
	Week   vo.WeekKey
	Format EmailFormat
	// Recipients overrides the configured list when non-empty.
	Recipients []string
}

type SendWeekReportResult struct {
	Recipients int
	Subject    string
	Format     EmailFormat
}

type SendWeekReportUseCase struct {
	assembler  *Assembler
	html       HTMLConverter
	pdf        PDFRenderer
	mailer     Mailer
	recipients []string
	logger     logger.Interface
}

func NewSendWeekReportUseCase(
	assembler *Assembler,
	html HTMLConverter,
	pdf PDFRenderer,
	mailer Mailer,
	recipients []string,
	logger logger.Interface,
) *SendWeekReportUseCase {
	return &SendWeekReportUseCase{
		assembler:  assembler,
		html:       html,
		pdf:        pdf,
		mailer:     mailer,
		recipients: recipients,
		logger:     logger,
	}
}

func (uc *SendWeekReportUseCase) Execute(ctx context.Context, cmd SendWeekReportCommand) (*SendWeekReportResult, error) {
	if !cmd.Format.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown email format %q", cmd.Format), "use html, pdf or both")
	}

	recipients := cmd.Recipients
	if len(recipients) == 0 {
		recipients = uc.recipients
	}
	if len(recipients) == 0 {
		return nil, errors.NewValidationError("no email recipients configured", "set email.recipients or pass --to")
	}

	r, err := uc.assembler.Assemble(ctx, cmd.Week)
	if err != nil {
		return nil, err
	}

	msg := Message{To: recipients, Subject: Subject(r)}

	if cmd.Format == EmailPDF {
		msg.TextBody = fmt.Sprintf("%s\n\nRapporten er vedhæftet som PDF.", msg.Subject)
	} else {
		body, err := uc.html.ToDocument(msg.Subject, RenderMarkdown(r))
		if err != nil {
			return nil, errors.NewInternalError("failed to render email body", err.Error())
		}
		msg.HTMLBody = body
	}

	if cmd.Format == EmailPDF || cmd.Format == EmailBoth {
		pdf, err := uc.pdf.RenderPDF(r)
		if err != nil {
			return nil, errors.NewInternalError("failed to render PDF", err.Error())
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    Filename(cmd.Week, "pdf"),
			ContentType: FormatPDF.ContentType(),
			Data:        pdf,
		})
	}

	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.logger.Errorw("failed to send week report", "week", cmd.Week.String(), "error", err)
		return nil, errors.NewUnavailableError("failed to send email", err.Error())
	}

	uc.logger.Infow("week report sent",
		"week", cmd.Week.String(),
		"format", cmd.Format.Label(),
		"recipients", len(recipients),
	)

	return &SendWeekReportResult{Recipients: len(recipients), Subject: msg.Subject, Format: cmd.Format}, nil
}
