// Package drive implements the file store boundary on top of the Drive API.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/internal/retry"
)

const pdfContentType = "application/pdf"

type DriveService struct {
	api    *driveapi.Service
	exec   *retry.Executor
	log    logger.Logger
	domain string
}

func NewDriveService(ctx context.Context, opts []option.ClientOption, domain string, exec *retry.Executor, log logger.Logger) (interfaces.FileStoreService, error) {
	api, err := driveapi.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "drive client init failed")
	}
	return &DriveService{api: api, exec: exec, log: log, domain: domain}, nil
}

func (s *DriveService) FindByName(ctx context.Context, name, folderID string) (*models.DepositRecord, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQueryValue(name), escapeQueryValue(folderID))

	list, err := retry.Do(ctx, s.exec, "drive lookup", func() (*driveapi.FileList, error) {
		return s.api.Files.List().Q(query).Fields("files(id,name)").Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	return &models.DepositRecord{ID: list.Files[0].Id, Name: list.Files[0].Name}, nil
}

func (s *DriveService) Upload(ctx context.Context, name, folderID string, content []byte) (*models.DepositRecord, error) {
	metadata := &driveapi.File{
		Name:    name,
		Parents: []string{folderID},
	}

	created, err := retry.Do(ctx, s.exec, "drive upload", func() (*driveapi.File, error) {
		return s.api.Files.Create(metadata).
			Media(bytes.NewReader(content), googleapi.ContentType(pdfContentType)).
			Fields("id", "name").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}
	return &models.DepositRecord{ID: created.Id, Name: created.Name}, nil
}

func (s *DriveService) Delete(ctx context.Context, id string) error {
	return s.exec.Execute(ctx, "drive delete", func() error {
		return s.api.Files.Delete(id).Context(ctx).Do()
	})
}

func (s *DriveService) ViewURL(id string) string {
	return fmt.Sprintf("https://%s/file/%s/view", s.domain, id)
}

func escapeQueryValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}
