package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/chronicle-it/chronicle/internal/application/report"
	"github.com/chronicle-it/chronicle/internal/shared/config"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func sampleMessage() report.Message {
	return report.Message{
		To:       []string{"it@example.dk", "chef@example.dk"},
		Subject:  "IT Ugelog - Uge 3, 2025",
		TextBody: "Ugens rapport.\n\nRapporten er vedhæftet som PDF.",
		Attachments: []report.Attachment{{
			Filename:    "ugelog_2025_uge3.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.3 test"),
		}},
	}
}

func TestSMTPMailer_Send(t *testing.T) {
	d := &captureDialer{}
	mailer := NewSMTPMailer(SMTPConfig{Host: "smtp.local", Port: 25, FromAddress: "noreply@example.dk", FromName: "Chronicle"}, logger.NewNop())
	mailer.dialer = d

	require.NoError(t, mailer.Send(context.Background(), sampleMessage()))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"it@example.dk", "chef@example.dk"}, m.GetHeader("To"))
	assert.Contains(t, m.GetHeader("From")[0], "noreply@example.dk")

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "ugelog_2025_uge3.pdf")
	assert.Contains(t, raw, "application/pdf")
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("%PDF-1.3 test")))
}

func TestSMTPMailer_SendErrors(t *testing.T) {
	d := &captureDialer{err: errors.New("connection refused")}
	mailer := NewSMTPMailer(SMTPConfig{Host: "smtp.local", Port: 25}, logger.NewNop())
	mailer.dialer = d

	err := mailer.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	err = mailer.Send(context.Background(), report.Message{Subject: "x"})
	assert.Error(t, err)
	assert.Len(t, d.sent, 1)
}

func newGraphServers(t *testing.T, status int) (*httptest.Server, *sendMailRequest, *string) {
	t.Helper()
	var (
		got     sendMailRequest
		gotPath string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, graphScope, r.Form.Get("scope"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1.0/users/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = w.Write([]byte(`{"error":{"code":"ErrorAccessDenied"}}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &got, &gotPath
}

func TestGraphMailer_Send(t *testing.T) {
	srv, got, path := newGraphServers(t, http.StatusAccepted)
	mailer := NewGraphMailer(GraphConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		BaseURL:      srv.URL + "/",
		FromAddress:  "it@example.dk",
	}, logger.NewNop())

	require.NoError(t, mailer.Send(context.Background(), sampleMessage()))

	assert.Equal(t, "/v1.0/users/it@example.dk/sendMail", *path)
	assert.True(t, got.SaveToSentItems)
	assert.Equal(t, "IT Ugelog - Uge 3, 2025", got.Message.Subject)
	assert.Equal(t, "Text", got.Message.Body.ContentType)
	require.Len(t, got.Message.ToRecipients, 2)
	assert.Equal(t, "chef@example.dk", got.Message.ToRecipients[1].EmailAddress.Address)
	require.Len(t, got.Message.Attachments, 1)
	att := got.Message.Attachments[0]
	assert.Equal(t, "#microsoft.graph.fileAttachment", att.ODataType)
	assert.Equal(t, "ugelog_2025_uge3.pdf", att.Name)
	data, err := base64.StdEncoding.DecodeString(att.ContentBytes)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 test", string(data))
}

func TestGraphMailer_HTMLBody(t *testing.T) {
	srv, got, _ := newGraphServers(t, http.StatusAccepted)
	mailer := NewGraphMailer(GraphConfig{
		ClientID: "client", ClientSecret: "secret",
		TokenURL: srv.URL + "/token", BaseURL: srv.URL, FromAddress: "it@example.dk",
	}, logger.NewNop())

	err := mailer.Send(context.Background(), report.Message{
		To:       []string{"it@example.dk"},
		Subject:  "s",
		HTMLBody: "<h1>Uge 3</h1>",
	})
	require.NoError(t, err)
	assert.Equal(t, "HTML", got.Message.Body.ContentType)
	assert.Empty(t, got.Message.Attachments)
}

func TestGraphMailer_ErrorStatus(t *testing.T) {
	srv, _, _ := newGraphServers(t, http.StatusForbidden)
	mailer := NewGraphMailer(GraphConfig{
		ClientID: "client", ClientSecret: "secret",
		TokenURL: srv.URL + "/token", BaseURL: srv.URL, FromAddress: "it@example.dk",
	}, logger.NewNop())

	err := mailer.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "ErrorAccessDenied")
}

func TestNewMailer(t *testing.T) {
	log := logger.NewNop()

	smtp := NewMailer(config.EmailConfig{Provider: ProviderSMTP, SMTPHost: "smtp.local", SMTPPort: 25}, config.MicrosoftConfig{}, log)
	assert.IsType(t, &SMTPMailer{}, smtp)

	graph := NewMailer(config.EmailConfig{Provider: ProviderGraph, FromAddress: "it@example.dk"},
		config.MicrosoftConfig{TenantID: "tenant", ClientID: "c", ClientSecret: "s", GraphBaseURL: "https://graph.microsoft.com"}, log)
	require.IsType(t, &GraphMailer{}, graph)
	assert.True(t, strings.HasSuffix(graph.(*GraphMailer).oauth.TokenURL, "/tenant/oauth2/v2.0/token"))

	missing := NewMailer(config.EmailConfig{Provider: ProviderGraph}, config.MicrosoftConfig{}, log)
	assert.ErrorIs(t, missing.Send(context.Background(), sampleMessage()), ErrEmailServiceNotConfigured)

	noHost := NewMailer(config.EmailConfig{Provider: ProviderSMTP}, config.MicrosoftConfig{}, log)
	assert.ErrorIs(t, noHost.Send(context.Background(), sampleMessage()), ErrEmailServiceNotConfigured)
}

func TestGraphMailer_ReusesToken(t *testing.T) {
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1.0/users/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mailer := NewGraphMailer(GraphConfig{
		ClientID: "client", ClientSecret: "secret",
		TokenURL: srv.URL + "/token", BaseURL: srv.URL, FromAddress: "it@example.dk",
	}, logger.NewNop())

	require.NoError(t, mailer.Send(context.Background(), sampleMessage()))
	require.NoError(t, mailer.Send(context.Background(), sampleMessage()))
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestGraphMailer_TokenFetchHonoursTimeout(t *testing.T) {
	var sendCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(time.Second):
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"graph-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1.0/users/", func(w http.ResponseWriter, r *http.Request) {
		sendCalls.Add(1)
		w.WriteHeader(http.StatusAccepted)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mailer := NewGraphMailer(GraphConfig{
		ClientID: "client", ClientSecret: "secret",
		TokenURL: srv.URL + "/token", BaseURL: srv.URL, FromAddress: "it@example.dk",
		Timeout: 100 * time.Millisecond,
	}, logger.NewNop())

	started := time.Now()
	err := mailer.Send(context.Background(), sampleMessage())
	require.Error(t, err)
	assert.Less(t, time.Since(started), 700*time.Millisecond)
	assert.Zero(t, sendCalls.Load())
}
