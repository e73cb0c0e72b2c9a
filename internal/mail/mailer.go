package mail

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"diarium/internal/config"
)

// Mailer delivers a single plain-text message. Sending is synchronous and
// best effort: errors propagate to the caller, nothing is retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New selects a transport from configuration. The sender address is injected
// here and nowhere else.
func New(cfg *config.Config, logger *slog.Logger) Mailer {
	switch cfg.MailDriver {
	case "smtp":
		return &SMTPMailer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
			from:     cfg.MailFrom,
		}
	default:
		return NewLogMailer(cfg.MailFrom, logger)
	}
}

// NewLogMailer builds the logging transport.
func NewLogMailer(from string, logger *slog.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

// LogMailer writes outgoing mail to the log. Used in development and as the
// default when no SMTP host is configured.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	_ = ctx
	m.logger.Info("outgoing mail",
		"from", m.from,
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}

// SMTPMailer delivers mail over a plain SMTP/STARTTLS connection.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	_ = ctx
	fromHeader, fromAddr, err := parseAddressForHeader(m.from)
	if err != nil {
		return err
	}
	toHeader, toAddr, err := parseAddressForHeader(to)
	if err != nil {
		return err
	}

	msg, err := buildMessage(fromHeader, toHeader, subject, body)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, auth, fromAddr, []string{toAddr}, msg)
}

func parseAddressForHeader(input string) (header string, addr string, err error) {
	if err := rejectCRLF(input, "address"); err != nil {
		return "", "", err
	}
	parsed, err := netmail.ParseAddress(input)
	if err != nil {
		return "", "", err
	}
	return parsed.String(), parsed.Address, nil
}

// buildMessage assembles the wire form of the mail. Subjects are MIME-encoded
// because they are usually non-ASCII.
func buildMessage(fromHeader, toHeader, subject, body string) ([]byte, error) {
	if err := rejectCRLF(subject, "subject"); err != nil {
		return nil, err
	}
	encodedSubject := mime.BEncoding.Encode("UTF-8", subject)
	dateStr := time.Now().Format(time.RFC1123Z)

	header := fmt.Sprintf("Date: %s\r\nFrom: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n",
		dateStr, fromHeader, toHeader, encodedSubject)
	return []byte(header + body), nil
}

func rejectCRLF(value, field string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("invalid %s header: CRLF not allowed", field)
	}
	return nil
}
