package notify

import (
	"context"
	"log/slog"

	"bookcore/internal/pkg/config"

	"github.com/google/uuid"
)

// LogNotifier writes confirmation notices to the structured log. It stands in
// for a mail or push gateway; the claim in the reservation row already
// guarantees at-most-once dispatch regardless of the transport behind this.
type LogNotifier struct {
	from string
}

func NewLogNotifier(cfg config.NotifyConfig) *LogNotifier {
	return &LogNotifier{from: cfg.FromAddress}
}

func (n *LogNotifier) Send(ctx context.Context, recipientID uuid.UUID, subject, body string) error {
	slog.InfoContext(ctx, "notification dispatched",
		"from", n.from,
		"recipient_id", recipientID,
		"subject", subject,
		"body", body,
	)
	return nil
}
