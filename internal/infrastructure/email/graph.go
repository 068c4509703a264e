package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/chronicle-it/chronicle/internal/application/report"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const graphScope = "https://graph.microsoft.com/.default"

type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	FromAddress  string
	Timeout      time.Duration
}

type graphRecipient struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

type graphMessage struct {
	Subject      string            `json:"subject"`
	Body         graphBody         `json:"body"`
	ToRecipients []graphRecipient  `json:"toRecipients"`
	Attachments  []graphAttachment `json:"attachments,omitempty"`
}

type sendMailRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

// GraphMailer sends mail as a shared mailbox through Microsoft Graph using
// application credentials. Access tokens are reused until they expire.
type GraphMailer struct {
	config GraphConfig
	oauth  clientcredentials.Config
	client *http.Client
	logger logger.Interface
}

var _ report.Mailer = (*GraphMailer)(nil)

func NewGraphMailer(config GraphConfig, logger logger.Interface) *GraphMailer {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	oauth := clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		Scopes:       []string{graphScope},
	}
	// The token endpoint is called through its own client so token fetches
	// are bounded by the same timeout as sendMail.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: config.Timeout})
	return &GraphMailer{
		config: config,
		oauth:  oauth,
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth.TokenSource(tokenCtx),
			},
		},
		logger: logger,
	}
}

func (g *GraphMailer) Send(ctx context.Context, msg report.Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	payload, err := json.Marshal(sendMailRequest{Message: toGraphMessage(msg), SaveToSentItems: true})
	if err != nil {
		return fmt.Errorf("failed to encode graph message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1.0/users/%s/sendMail", g.config.BaseURL, url.PathEscape(g.config.FromAddress))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("graph sendMail failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph sendMail returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	g.logger.Infow("email sent via graph",
		"from", g.config.FromAddress,
		"recipients", len(msg.To),
		"attachments", len(msg.Attachments),
	)
	return nil
}

func toGraphMessage(msg report.Message) graphMessage {
	body := graphBody{ContentType: "Text", Content: msg.TextBody}
	if msg.HTMLBody != "" {
		body = graphBody{ContentType: "HTML", Content: msg.HTMLBody}
	}

	out := graphMessage{Subject: msg.Subject, Body: body}
	for _, addr := range msg.To {
		var r graphRecipient
		r.EmailAddress.Address = addr
		out.ToRecipients = append(out.ToRecipients, r)
	}
	for _, a := range msg.Attachments {
		out.Attachments = append(out.Attachments, graphAttachment{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         a.Filename,
			ContentType:  a.ContentType,
			ContentBytes: base64.StdEncoding.EncodeToString(a.Data),
		})
	}
	return out
}
