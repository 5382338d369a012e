package ports

import "context"

type Email struct {
	To      []string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}
