package interfaces

import (
	"context"

	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
)

// FileStoreService is the external store boundary. A valid service
// credential is supplied at construction by the auth collaborator.
type FileStoreService interface {
	// FindByName returns the store record matching name inside the folder,
	// or nil when absent.
	FindByName(ctx context.Context, name, folderID string) (*models.DepositRecord, error)
	// Upload creates the artifact and returns its store-assigned identity.
	Upload(ctx context.Context, name, folderID string, content []byte) (*models.DepositRecord, error)
	// Delete removes an artifact by store id.
	Delete(ctx context.Context, id string) error
	// ViewURL returns the public view link for a deposited artifact.
	ViewURL(id string) string
}
