// Package markdown converts report Markdown into sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

type Service interface {
	ToHTML(markdown string) (string, error)
	// ToDocument renders markdown into a standalone HTML document suitable for an email body.
	ToDocument(title, markdown string) (string, error)
}

type service struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewService() Service {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("align").Matching(bluemonday.SpaceSeparatedTokens).OnElements("th", "td")
	policy.AllowAttrs("style").OnElements("th", "td")

	return &service{md: md, policy: policy}
}

func (s *service) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return s.policy.Sanitize(buf.String()), nil
}

const documentStyle = `body{font-family:Arial,Helvetica,sans-serif;color:#222;max-width:760px}` +
	`table{border-collapse:collapse;margin:8px 0}` +
	`th,td{border:1px solid #ccc;padding:4px 10px}` +
	`th{background:#f0f3f7}h1{color:#1d3f72}h2{color:#1d3f72;border-bottom:1px solid #dde}`

func (s *service) ToDocument(title, markdown string) (string, error) {
	body, err := s.ToHTML(markdown)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>\n%s</body></html>\n",
		html.EscapeString(title), documentStyle, body), nil
}
