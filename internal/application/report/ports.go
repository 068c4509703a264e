package report

import "context"

// PDFRenderer turns an assembled report into a PDF document.
type PDFRenderer interface {
	RenderPDF(r *WeekReport) ([]byte, error)
}

// HTMLConverter turns Markdown into a sanitized standalone HTML document.
type HTMLConverter interface {
	ToDocument(title, markdown string) (string, error)
}

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Mailer delivers a message through the configured provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
