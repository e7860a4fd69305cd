package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go-approvals/internal/features/settings"

	"github.com/google/uuid"
)

var ErrTransportFailure = errors.New("email transport failure")

// Sender delivers one rendered email. Implementations must honor ctx
// cancellation so a slow transport cannot hold the request open.
type Sender interface {
	Send(ctx context.Context, email *SentEmail) (messageID string, err error)
}

// SMTPSender delivers via plain SMTP using the runtime-configured server.
type SMTPSender struct {
	Settings settings.SettingsService
}

func NewSMTPSender(settingsService settings.SettingsService) Sender {
	return &SMTPSender{Settings: settingsService}
}

func (s *SMTPSender) Send(ctx context.Context, email *SentEmail) (string, error) {
	cfg, err := s.Settings.GetEmailConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch email config: %v", ErrTransportFailure, err)
	}
	if cfg == nil {
		return "", fmt.Errorf("%w: email configuration not found", ErrTransportFailure)
	}
	if cfg.SMTPHost == "" || cfg.SMTPPort == 0 {
		return "", fmt.Errorf("%w: invalid email configuration: missing host or port", ErrTransportFailure)
	}

	from := cfg.FromEmail
	if from == "" {
		from = cfg.SMTPUser
	}
	email.From = from

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), cfg.SMTPHost)
	msg := buildMessage(email, messageID)

	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)

	recipients := append(append(append([]string{}, email.To...), email.Cc...), email.Bcc...)

	// net/smtp has no context support; run it aside and race the deadline.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, from, recipients, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTransportFailure, err)
		}
		return messageID, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTransportFailure, ctx.Err())
	}
}

func buildMessage(email *SentEmail, messageID string) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", email.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	if len(email.Cc) > 0 {
		b.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(email.Cc, ", ")))
	}
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	b.WriteString(fmt.Sprintf("Message-ID: %s\r\n", messageID))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.HtmlBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}
