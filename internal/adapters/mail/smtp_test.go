package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/see/internal/config"
	"github.com/example/see/internal/ports/secondary"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	from string
	to   []string
	msg  string
}

func newTestSMTPMailer(t *testing.T, cfg config.MailConfig) (*SMTPMailer, *[]sentMail) {
	t.Helper()
	m, err := NewSMTPMailer(cfg, zap.NewNop())
	require.NoError(t, err)
	var sent []sentMail
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, auth: a, from: from, to: to, msg: string(msg)})
		return nil
	}
	m.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return m, &sent
}

func TestSMTPMailer_PlainText(t *testing.T) {
	m, sent := newTestSMTPMailer(t, config.MailConfig{Host: "smtp.example.com", Port: 587, From: "SEE <see@example.com>"})

	err := m.Send(context.Background(), secondary.MailMessage{
		To: "Paula Rojas <paula@minera.cl>", Subject: "Encuesta NPS", Text: "Hola Paula",
	})
	require.NoError(t, err)
	require.Len(t, *sent, 1)

	got := (*sent)[0]
	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Nil(t, got.auth)
	assert.Equal(t, "see@example.com", got.from)
	assert.Equal(t, []string{"paula@minera.cl"}, got.to)
	assert.Contains(t, got.msg, "Subject: Encuesta NPS\r\n")
	assert.Contains(t, got.msg, "Date: Sat, 15 Jun 2024 10:00:00 +0000\r\n")
	assert.Contains(t, got.msg, "Content-Type: text/plain")
	assert.True(t, strings.HasSuffix(got.msg, "\r\n\r\nHola Paula"))
}

func TestSMTPMailer_Alternative(t *testing.T) {
	m, sent := newTestSMTPMailer(t, config.MailConfig{Host: "smtp.example.com", Port: 465, From: "see@example.com", Username: "see", Password: "secret"})

	err := m.Send(context.Background(), secondary.MailMessage{
		To: "paula@minera.cl", Subject: "¿Recomendaría?", Text: "texto", HTML: "<p>html</p>",
	})
	require.NoError(t, err)

	got := (*sent)[0]
	assert.NotNil(t, got.auth)
	assert.Contains(t, got.msg, "Subject: =?utf-8?q?")
	assert.Contains(t, got.msg, "multipart/alternative; boundary=")
	assert.Contains(t, got.msg, "<p>html</p>")
	assert.Less(t, strings.Index(got.msg, "texto"), strings.Index(got.msg, "<p>html</p>"))
}

func TestSMTPMailer_Errors(t *testing.T) {
	_, err := NewSMTPMailer(config.MailConfig{Host: "smtp.example.com", From: "not an address"}, zap.NewNop())
	assert.Error(t, err)

	m, _ := newTestSMTPMailer(t, config.MailConfig{Host: "smtp.example.com", Port: 587, From: "see@example.com"})
	assert.Error(t, m.Send(context.Background(), secondary.MailMessage{To: "nadie"}))

	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }
	err = m.Send(context.Background(), secondary.MailMessage{To: "paula@minera.cl", Text: "x"})
	assert.ErrorContains(t, err, "connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, secondary.MailMessage{To: "paula@minera.cl"}), context.Canceled)
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m, err := New(config.MailConfig{Enabled: false}, zap.New(core))
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), secondary.MailMessage{To: "paula@minera.cl", Subject: "Encuesta NPS"}))
	entries := logs.FilterMessage("mail disabled, message not sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "paula@minera.cl", entries[0].ContextMap()["to"])
}
