// Package deposit guarantees the once-per-day artifact deposit. The
// artifact name is the idempotency key; the store is the source of truth.
package deposit

import (
	"context"

	"github.com/pkg/errors"

	rassegna_errors "github.com/poggig1971/telpress-rassegna-bot/errors"
	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
)

type Result string

const (
	ResultSkipped  Result = "skipped"
	ResultUploaded Result = "uploaded"
	ResultReplaced Result = "replaced"
)

type Manager struct {
	store interfaces.FileStoreService
	log   logger.Logger
}

func NewManager(store interfaces.FileStoreService, log logger.Logger) *Manager {
	return &Manager{store: store, log: log}
}

// Existing reports the store record for name inside the folder, nil when
// absent. Queried fresh on every call, never cached.
func (m *Manager) Existing(ctx context.Context, name, folderID string) (*models.DepositRecord, error) {
	return m.store.FindByName(ctx, name, folderID)
}

// EnsureDeposited uploads content under name unless an artifact with that
// exact name already exists. With force set, the existing artifact is
// deleted first; a deletion failure aborts the run rather than letting an
// overwrite silently degrade to a duplicate.
func (m *Manager) EnsureDeposited(ctx context.Context, content []byte, name, folderID string, force bool) (Result, *models.DepositRecord, error) {
	existing, err := m.store.FindByName(ctx, name, folderID)
	if err != nil {
		return "", nil, err
	}

	replaced := false
	if existing != nil {
		if !force {
			m.log.Infof("%s already deposited (id=%s), skipping", name, existing.ID)
			return ResultSkipped, existing, nil
		}
		if err := m.store.Delete(ctx, existing.ID); err != nil {
			return "", nil, errors.Wrapf(rassegna_errors.ErrOverwriteDelete, "%s (id=%s): %v", name, existing.ID, err)
		}
		m.log.Infof("removed existing artifact for overwrite: %s (id=%s)", name, existing.ID)
		replaced = true
	}

	record, err := m.store.Upload(ctx, name, folderID, content)
	if err != nil {
		return "", nil, err
	}

	if replaced {
		return ResultReplaced, record, nil
	}
	return ResultUploaded, record, nil
}
