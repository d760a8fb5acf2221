package interfaces

import (
	"context"

	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
)

// MailboxService is the read-only mailbox boundary. A valid, refreshed
// access credential is supplied at construction by the auth collaborator.
type MailboxService interface {
	// Search returns the ids of messages matching the query, newest first.
	Search(ctx context.Context, query string, maxResults int64) ([]string, error)
	// GetMessage fetches a full message with its MIME part tree.
	GetMessage(ctx context.Context, id string) (*models.SourceMessage, error)
	// GetAttachment fetches the raw bytes of one attachment part.
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}
