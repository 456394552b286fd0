package lib

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

type Notification struct {
	To      string
	Subject string
	Body    string
	Html    bool
}

// Notifier delivers guest-facing messages. It is created once at start-up and closed on shutdown.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}

func GetSMTPClient() (*mail.Client, error) {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	user := os.Getenv("SMTP_USERNAME")
	pass := os.Getenv("SMTP_PASSWORD")
	c, err := mail.NewClient(host, mail.WithPort(port), mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(user), mail.WithPassword(pass))
	if err != nil {
		log.Printf("Could not initialize smtp client: %s\n", err.Error())
		return nil, err
	}
	return c, nil
}

type SMTPNotifier struct {
	client   *mail.Client
	From     string
	FromName string
}

func NewSMTPNotifier() (*SMTPNotifier, error) {
	c, err := GetSMTPClient()
	if err != nil {
		return nil, err
	}
	return &SMTPNotifier{
		client:   c,
		From:     os.Getenv("SMTP_FROM"),
		FromName: os.Getenv("SMTP_FROM_NAME"),
	}, nil
}

func (s *SMTPNotifier) Notify(ctx context.Context, n Notification) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.FromName, s.From); err != nil {
		log.Printf("Failed to set From address: %s\n", err.Error())
		return err
	}
	if err := msg.To(n.To); err != nil {
		log.Printf("Failed to set To address: %s\n", err.Error())
		return err
	}
	msg.Subject(n.Subject)
	if n.Html {
		msg.SetBodyString(mail.TypeTextHTML, n.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, n.Body)
	}
	return s.client.DialAndSendWithContext(ctx, msg)
}

func (s *SMTPNotifier) Close() error {
	return s.client.Close()
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, n Notification) error {
	return nil
}

func (NoopNotifier) Close() error {
	return nil
}

// NewNotifier returns an SMTP notifier, or a no-op one when SMTP_HOST is unset.
func NewNotifier() Notifier {
	if os.Getenv("SMTP_HOST") == "" {
		log.Println("[smtp] SMTP_HOST not set, notifications are disabled")
		return NoopNotifier{}
	}
	n, err := NewSMTPNotifier()
	if err != nil {
		return NoopNotifier{}
	}
	return n
}
