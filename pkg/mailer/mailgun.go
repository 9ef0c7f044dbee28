package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	From    string
	Timeout time.Duration
	client  *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, from string) *Mailgun {
	return &Mailgun{From: from, Timeout: 10 * time.Second, client: mg.NewMailgun(domain, apiKey)}
}

// Send delivers one message. Rejections other than rate limiting wrap
// ErrPermanent.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.From, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return classify(err, mg.GetStatusFromErr(err))
}

// classify marks 4xx rejections permanent; 429, 5xx and transport errors stay
// retryable.
func classify(err error, status int) error {
	if err == nil {
		return nil
	}
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
		return fmt.Errorf("%w: mailgun status %d: %v", ErrPermanent, status, err)
	}
	return err
}

var _ Sender = (*Mailgun)(nil)
