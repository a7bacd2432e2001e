// Package mailer sends the account lifecycle emails.
package mailer

import (
	"context"
	"errors"
)

// ErrProviderAuth is returned when the mail relay rejects our credentials
// (SMTP 535). Callers surface it differently from other send failures since
// it is an operator problem, not a transient one.
var ErrProviderAuth = errors.New("mailer: email provider rejected authentication")

// Message is a rendered email with both an HTML and a plain text part.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers messages. Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
