package commands

import (
	"context"

	"github.com/google/uuid"
)

// Notifier delivers best-effort notifications. Resolving the recipient id to
// a concrete address is the adapter's concern; failures must never fail the
// mutation that triggered the send.
type Notifier interface {
	Send(ctx context.Context, recipientID uuid.UUID, subject, body string) error
}
