package mailer

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// LogNotifier writes messages to the log instead of sending them. Useful in
// development where the links can be copied straight out of the log.
type LogNotifier struct {
	Logger *slog.Logger // falls back to the request logger
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	log := n.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}
	log.InfoContext(ctx, "email",
		"to", msg.To,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}
