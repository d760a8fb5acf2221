package interfaces

import "context"

// Mailer delivers one composed RFC 5322 message over an authenticated
// TLS SMTP session.
type Mailer interface {
	Send(ctx context.Context, from string, recipients []string, message []byte) error
}
