package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/ezla-online/portal/internal/config"
)

// Mailer delivers plain text notifications to patients.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends messages through an SMTP relay.
type SMTPMailer struct {
	addr    string
	user    string
	pass    string
	from    string
	tls     bool
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

const defaultSendTimeout = 30 * time.Second

// NewSMTPMailer builds a mailer from relay settings. From defaults to User.
func NewSMTPMailer(cfg config.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		user:    cfg.User,
		pass:    cfg.Password,
		from:    from,
		tls:     cfg.TLS,
		logger:  logger,
		now:     time.Now,
		timeout: defaultSendTimeout,
	}
}

// Send delivers a single plain text message. With TLS enabled the relay is
// reached over implicit TLS, otherwise over a plaintext session. The dial and
// every SMTP command are bounded by the context deadline or the send timeout,
// whichever is sooner.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	c, err := m.dial(ctx, timeout)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer c.Close()
	c.CommandTimeout = timeout
	c.SubmissionTimeout = timeout
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	if m.user != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("send mail: smtp server does not support AUTH")
		}
		if err := c.Auth(sasl.NewPlainClient("", m.user, m.pass)); err != nil {
			return fmt.Errorf("send mail: auth: %w", err)
		}
	}

	if err := c.SendMail(m.from, []string{to}, strings.NewReader(m.compose(to, subject, body))); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("send mail: %w", ctxErr)
		}
		return fmt.Errorf("send mail: %w", err)
	}
	if err := c.Quit(); err != nil {
		m.logger.Warn("smtp quit failed", slog.String("error", err.Error()))
	}
	m.logger.Info("mail sent", slog.String("to", to))
	return nil
}

func (m *SMTPMailer) dial(ctx context.Context, timeout time.Duration) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: timeout}
	host, _, _ := net.SplitHostPort(m.addr)

	var (
		conn net.Conn
		err  error
	)
	if m.tls {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", m.addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", m.addr)
	}
	if err != nil {
		return nil, err
	}
	return smtp.NewClient(conn), nil
}

func (m *SMTPMailer) compose(to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + m.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.String()
}

// Noop drops messages when no relay is configured.
type Noop struct {
	Logger *slog.Logger
}

// Send logs the skipped message and reports success.
func (n Noop) Send(_ context.Context, to, _, _ string) error {
	if n.Logger != nil {
		n.Logger.Warn("mail not sent: smtp is not configured", slog.String("to", to))
	}
	return nil
}
