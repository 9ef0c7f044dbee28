package application

import "context"

// MailPublisher puts email jobs on the mail queue. *helpers.RabbitPublisher
// satisfies it.
type MailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
