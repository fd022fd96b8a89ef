// Package mail defines the outbound mail collaborator. The disclosure and
// sweep services only see the Mailer interface; transport failures of any
// kind surface as per-recipient errors and are never retried here.
package mail

import (
	"context"

	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/logging"
)

// Mailer delivers one message to one recipient. Implementations must honor
// ctx cancellation/deadline; a deadline hit is an ordinary send failure.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// LogMailer is the development fallback used when no SMTP host is
// configured: it logs the envelope (never the body, which may contain
// decrypted credentials) and reports success.
type LogMailer struct {
	log logging.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	m.log.Info(ctx, "mail send skipped (no SMTP host configured)", "to", to, "subject", subject)
	return nil
}
