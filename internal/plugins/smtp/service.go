// Package smtp delivers outbound mail, currently only password reset
// codes. The relay is configured from the environment at startup.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	gosmtp "net/smtp"
	"strings"
	"time"

	"github.com/keyxmakerx/storefront/internal/config"
)

// ErrNotConfigured is returned by SendMail when no relay host is set.
var ErrNotConfigured = errors.New("smtp is not configured")

const dialTimeout = 10 * time.Second

// Sender sends plain-text mail through one SMTP relay.
type Sender struct {
	cfg  config.SMTPConfig
	from mail.Address
	now  func() time.Time
}

// NewSender creates a sender for the configured relay.
func NewSender(cfg config.SMTPConfig) *Sender {
	return &Sender{
		cfg:  cfg,
		from: mail.Address{Name: cfg.FromName, Address: cfg.FromAddress},
		now:  time.Now,
	}
}

// IsConfigured reports whether a relay host is set.
func (s *Sender) IsConfigured() bool {
	return s.cfg.Configured()
}

// SendMail delivers one message to the given recipients. The context
// bounds the whole SMTP conversation.
func (s *Sender) SendMail(ctx context.Context, to []string, subject, body string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	msg, err := s.buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	client, conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	defer client.Close()

	if s.cfg.Username != "" {
		auth := gosmtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	return sendMessage(client, s.from.Address, to, msg)
}

// connect dials the relay according to the encryption mode: implicit TLS
// for "ssl", an upgrade for "starttls", and a bare connection for "none".
func (s *Sender) connect(ctx context.Context) (*gosmtp.Client, net.Conn, error) {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	var err error
	if s.cfg.Encryption == "ssl" {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := gosmtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("creating smtp client: %w", err)
	}

	if s.cfg.Encryption == "starttls" {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			conn.Close()
			return nil, nil, fmt.Errorf("starting TLS: %w", err)
		}
	}

	return client, conn, nil
}

// buildMessage renders an RFC 5322 message. Header values are checked for
// line breaks so a recipient or subject can never inject extra headers.
func (s *Sender) buildMessage(to []string, subject, body string) (string, error) {
	for _, v := range append([]string{subject}, to...) {
		if strings.ContainsAny(v, "\r\n") {
			return "", errors.New("header value contains a line break")
		}
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&msg, "Date: %s\r\n", s.now().UTC().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return msg.String(), nil
}

// sendMessage handles MAIL FROM, RCPT TO, DATA for an existing SMTP client.
func sendMessage(client *gosmtp.Client, from string, to []string, msg string) error {
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", recipient, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data: %w", err)
	}
	return client.Quit()
}
