// Package notify delivers e-mail notifications and composes the messages sent
// when a contact form is submitted.
package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Message is one e-mail to deliver. An empty From means the sender's default.
type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSettings configures the SMTP transport.
type SMTPSettings struct {
	Host        string
	Port        int
	Username    string
	Password    string
	DefaultFrom string
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	settings SMTPSettings
}

// NewSender returns an SMTPSender when a host is configured and a LogSender otherwise,
// so a development setup without mail credentials still runs the whole flow.
func NewSender(settings SMTPSettings, logger *zap.Logger) Sender {
	if settings.Host == "" {
		return &LogSender{logger: logger}
	}
	return &SMTPSender{settings: settings}
}

// Send dials the relay and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()

	from := msg.From
	if from == "" {
		from = s.settings.DefaultFrom
	}
	if err := m.From(from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)

	text := msg.Text
	if text == "" {
		text = plainText(msg.HTML)
	}
	m.SetBodyString(mail.TypeTextPlain, text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	opts := []mail.Option{
		mail.WithPort(s.settings.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if s.settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.settings.Username),
			mail.WithPassword(s.settings.Password),
		)
	}

	client, err := mail.NewClient(s.settings.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender stands in for SMTP when mail is not configured: it logs what
// would have been sent and reports success.
type LogSender struct {
	logger *zap.Logger
}

// Send logs the message envelope.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not configured, would send",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("from", msg.From),
	)
	return nil
}

var strictPolicy = bluemonday.StrictPolicy()

// plainText reduces a rendered HTML body to readable text for the text/plain part.
func plainText(body string) string {
	return html.UnescapeString(strictPolicy.Sanitize(body))
}
