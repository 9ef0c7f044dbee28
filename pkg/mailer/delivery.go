package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/blood-donation-service/pkg/mailer/templates"
)

// ErrPermanent marks jobs that will never succeed and must not be requeued.
var ErrPermanent = errors.New("permanent email job failure")

// Decode parses a queue payload and renders its template when one is set.
// Failures wrap ErrPermanent.
func Decode(body []byte) (*EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrPermanent, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return nil, fmt.Errorf("%w: missing recipient", ErrPermanent)
	}
	ensureRecipient(&job)
	if job.Template == "" {
		return &job, nil
	}
	if !mailtpl.Known(job.Template) {
		return nil, fmt.Errorf("%w: unknown template %q", ErrPermanent, job.Template)
	}
	s, t, h, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: render %s: %v", ErrPermanent, job.Template, err)
	}
	if job.Subject == "" {
		job.Subject = s
	}
	job.Text, job.HTML = t, h
	return &job, nil
}

// Deliver decodes body and sends it. Send errors are returned unwrapped so the
// caller can requeue them. The decoded job is returned whenever decoding worked.
func Deliver(ctx context.Context, s Sender, body []byte) (*EmailJob, error) {
	job, err := Decode(body)
	if err != nil {
		return nil, err
	}
	return job, s.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}

func ensureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
