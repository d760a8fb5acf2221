// Package gmail implements the mailbox boundary on top of the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/pkg/errors"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/internal/retry"
)

const mailboxUser = "me"

type GmailService struct {
	api  *gmailapi.Service
	exec *retry.Executor
	log  logger.Logger
}

func NewGmailService(ctx context.Context, opts []option.ClientOption, exec *retry.Executor, log logger.Logger) (interfaces.MailboxService, error) {
	api, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "gmail client init failed")
	}
	return &GmailService{api: api, exec: exec, log: log}, nil
}

func (s *GmailService) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	res, err := retry.Do(ctx, s.exec, "gmail search", func() (*gmailapi.ListMessagesResponse, error) {
		return s.api.Users.Messages.List(mailboxUser).Q(query).MaxResults(maxResults).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (s *GmailService) GetMessage(ctx context.Context, id string) (*models.SourceMessage, error) {
	full, err := retry.Do(ctx, s.exec, "gmail fetch", func() (*gmailapi.Message, error) {
		return s.api.Users.Messages.Get(mailboxUser, id).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	msg := &models.SourceMessage{
		ID:           full.Id,
		InternalDate: time.UnixMilli(full.InternalDate),
		Subject:      headerValue(full.Payload, "Subject"),
		Payload:      convertPart(full.Payload),
	}
	return msg, nil
}

func (s *GmailService) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	body, err := retry.Do(ctx, s.exec, "gmail attachment fetch", func() (*gmailapi.MessagePartBody, error) {
		return s.api.Users.Messages.Attachments.Get(mailboxUser, messageID, attachmentID).Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	return decodeBody(body.Data)
}

func headerValue(part *gmailapi.MessagePart, name string) string {
	if part == nil {
		return ""
	}
	for _, h := range part.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func convertPart(part *gmailapi.MessagePart) *models.MessagePart {
	if part == nil {
		return nil
	}

	converted := &models.MessagePart{
		MimeType: part.MimeType,
		Filename: part.Filename,
	}
	if part.Body != nil {
		converted.AttachmentID = part.Body.AttachmentId
		if part.Body.Data != "" {
			// Inline body data decodes eagerly; attachment parts carry
			// only their id and are fetched on demand.
			if data, err := decodeBody(part.Body.Data); err == nil {
				converted.Data = data
			}
		}
	}
	for _, child := range part.Parts {
		converted.Parts = append(converted.Parts, convertPart(child))
	}
	return converted
}

// decodeBody handles the web-safe base64 used by the Gmail API, with or
// without padding.
func decodeBody(data string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
}
