package notify

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPMailer sends plain text emails through SMTP relay
type SMTPMailer struct {
	from string
	send func(ctx context.Context, messages ...*mail.Msg) error
}

// NewSMTPMailer creates new SMTPMailer instance, auth is skipped when username is empty
func NewSMTPMailer(addr, username, password, from string) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	} else {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("parse smtp port: %w", err)
		}
		opts = append(opts, mail.WithPort(p))
	}

	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password))
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{from: from, send: client.DialAndSendWithContext}, nil
}

// SendEmail sends email
func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	msg, err := m.message(to, subject, body)
	if err != nil {
		return err
	}

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) message(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

// LogMailer writes emails to log, used when SMTP is not configured
type LogMailer struct{}

// SendEmail logs email
func (LogMailer) SendEmail(_ context.Context, to, subject, _ string) error {
	logger.Log.Info("email not sent, smtp is not configured", zap.String("to", to), zap.String("subject", subject))
	return nil
}
