package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun delivers queued email jobs. The client is built once; jobs are
// plain text with an optional HTML body.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

// Send delivers a single job. Jobs without a recipient are rejected here
// rather than bounced by the provider.
func (m *Mailgun) Send(ctx context.Context, job EmailJob) error {
	if job.To == "" {
		return errors.New("email job has no recipient")
	}
	msg := m.client.NewMessage(m.sender, job.Subject, job.Text, job.To)
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}
