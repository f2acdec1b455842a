// AngelaMos | 2026
// sender.go

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/carterperez-dev/bookcatalog/internal/config"
)

type smtpSender struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSender picks the SMTP sender when mail is enabled and the log-only
// sender otherwise.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled {
		return &logSender{}
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpSender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(b.String()))
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// logSender records outgoing mail instead of delivering it.
type logSender struct{}

func (s *logSender) Send(_ context.Context, msg Message) error {
	slog.Info("mail (not sent, mail disabled)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
