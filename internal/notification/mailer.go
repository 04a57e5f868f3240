package notification

import (
	"context"
	"fmt"
	"time"

	"go-leave/internal/shared/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

//go:generate mockgen -source=mailer.go -destination=mock/mailer_mock.go -package=mock
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer, or one that only logs when SMTP is not
// configured.
func NewMailer(cfg config.SMTPOptions, logger ...*zap.Logger) Mailer {
	l := zap.L().Named("notification.mailer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.mailer")
	}
	if !cfg.Enabled() {
		l.Warn("smtp not configured, emails will be skipped")
		return noopMailer{logger: l}
	}
	return &SMTPMailer{cfg: cfg, logger: l}
}

type SMTPMailer struct {
	cfg    config.SMTPOptions
	logger *zap.Logger
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	email := mail.NewMsg()
	if err := email.From(m.cfg.Sender()); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	email.Subject(msg.Subject)
	email.SetDate()
	email.SetMessageID()
	email.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		email.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.User),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type noopMailer struct {
	logger *zap.Logger
}

func (n noopMailer) Send(_ context.Context, msg Message) error {
	n.logger.Info("email skipped, smtp not configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
