// Package mail delivers transactional email over SMTP, or logs it when
// mail is disabled.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/config"
	"github.com/example/see/internal/ports/secondary"
)

// SMTPMailer implements secondary.Mailer with net/smtp.
type SMTPMailer struct {
	addr     string
	host     string
	from     *mail.Address
	username string
	password string
	logger   *zap.Logger

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now      func() time.Time
}

// NewSMTPMailer creates a mailer for cfg. The from address must parse.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("invalid mail.from %q: %w", cfg.From, err)
	}
	return &SMTPMailer{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host:     cfg.Host,
		from:     from,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
		sendMail: smtp.SendMail,
		now:      time.Now,
	}, nil
}

// Send delivers msg. Authentication is used only when a username is set.
func (m *SMTPMailer) Send(ctx context.Context, msg secondary.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, err := mail.ParseAddress(msg.To)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	body, err := m.compose(to, msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := m.sendMail(m.addr, auth, m.from.Address, []string{to.Address}, body); err != nil {
		m.logger.Error("mail delivery failed", zap.String("to", to.Address), zap.Error(err))
		return fmt.Errorf("failed to send mail to %s: %w", to.Address, err)
	}
	m.logger.Info("mail sent", zap.String("to", to.Address), zap.String("subject", msg.Subject))
	return nil
}

// compose builds an RFC 5322 message: plain text alone, or
// multipart/alternative when an HTML body is present.
func (m *SMTPMailer) compose(to *mail.Address, msg secondary.MailMessage) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }
	header("From", m.from.String())
	header("To", to.String())
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")

	if msg.HTML == "" {
		header("Content-Type", `text/plain; charset="utf-8"`)
		header("Content-Transfer-Encoding", "8bit")
		buf.WriteString("\r\n")
		buf.WriteString(msg.Text)
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	w := multipart.NewWriter(&parts)
	header("Content-Type", "multipart/alternative; boundary="+w.Boundary())
	buf.WriteString("\r\n")
	for _, p := range []struct{ contentType, body string }{
		{`text/plain; charset="utf-8"`, msg.Text},
		{`text/html; charset="utf-8"`, msg.HTML},
	} {
		part, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"8bit"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compose mail: %w", err)
		}
		if _, err := part.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("failed to compose mail: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to compose mail: %w", err)
	}
	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}

// LogMailer records messages in the log instead of sending them.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer for disabled mail.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg.
func (m *LogMailer) Send(ctx context.Context, msg secondary.MailMessage) error {
	if _, err := mail.ParseAddress(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.logger.Info("mail disabled, message not sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text))
	return nil
}

// New returns the SMTP mailer when mail is enabled and the log mailer otherwise.
func New(cfg config.MailConfig, logger *zap.Logger) (secondary.Mailer, error) {
	if !cfg.Enabled {
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ secondary.Mailer = (*SMTPMailer)(nil)
	_ secondary.Mailer = (*LogMailer)(nil)
)
