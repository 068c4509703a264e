package report

import (
	"context"
	"fmt"

	vo "github.com/chronicle-it/chronicle/internal/domain/weeklog/valueobjects"
	"github.com/chronicle-it/chronicle/internal/shared/errors"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatHTML     ExportFormat = "html"
	FormatPDF      ExportFormat = "pdf"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatHTML, FormatPDF:
		return true
	}
	return false
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown; charset=utf-8"
	}
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportWeekReportUseCase struct {
	assembler *Assembler
	html      HTMLConverter
	pdf       PDFRenderer
	logger    logger.Interface
}

func NewExportWeekReportUseCase(assembler *Assembler, html HTMLConverter, pdf PDFRenderer, logger logger.Interface) *ExportWeekReportUseCase {
	return &ExportWeekReportUseCase{assembler: assembler, html: html, pdf: pdf, logger: logger}
}

func (uc *ExportWeekReportUseCase) Execute(ctx context.Context, key vo.WeekKey, format ExportFormat) (*ExportResult, error) {
	if !format.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown export format %q", format), "use md, html or pdf")
	}

	r, err := uc.assembler.Assemble(ctx, key)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(RenderMarkdown(r))
	case FormatHTML:
		doc, err := uc.html.ToDocument(Subject(r), RenderMarkdown(r))
		if err != nil {
			return nil, errors.NewInternalError("failed to render HTML", err.Error())
		}
		data = []byte(doc)
	case FormatPDF:
		if data, err = uc.pdf.RenderPDF(r); err != nil {
			return nil, errors.NewInternalError("failed to render PDF", err.Error())
		}
	}

	uc.logger.Infow("week report exported", "week", key.String(), "format", format, "bytes", len(data))

	return &ExportResult{
		Filename:    Filename(key, string(format)),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Subject is the email subject and document title, e.g. "IT Ugelog - Uge 3, 2025".
func Subject(r *WeekReport) string {
	return fmt.Sprintf("%s - %s", r.Title, r.Key().Label())
}

// Filename follows ugelog_<year>_uge<week>.<ext>.
func Filename(key vo.WeekKey, ext string) string {
	return fmt.Sprintf("ugelog_%d_uge%d.%s", key.Year, key.Week, ext)
}
