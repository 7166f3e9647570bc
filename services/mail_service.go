package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/techagentng/civilink/config"
	"go.uber.org/zap"
)

// Mailer sends account emails. Delivery is best effort and never blocks signup.
type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
}

type mailgunMailer struct {
	Config *config.Config
	mg     mailgun.Mailgun
}

// NewMailer returns a Mailgun mailer when credentials are configured and a
// logging mailer otherwise.
func NewMailer(conf *config.Config, logger *zap.Logger) Mailer {
	if !conf.MailEnabled() {
		return &logMailer{logger: logger}
	}
	return &mailgunMailer{
		Config: conf,
		mg:     mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey),
	}
}

func (m *mailgunMailer) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to CiviLink. You can now report civic issues in your area and follow what your neighbours report.\n", name)
	msg := m.mg.NewMessage(m.Config.MgEmailFrom, "Welcome to CiviLink", body, to)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.mg.Send(ctx, msg)
	return err
}

type logMailer struct {
	logger *zap.Logger
}

func (l *logMailer) SendWelcome(_ context.Context, to, name string) error {
	l.logger.Info("welcome email skipped, mail is not configured",
		zap.String("to", to), zap.String("name", name))
	return nil
}
