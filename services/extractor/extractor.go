// Package extractor pulls the raw PDF out of a located message, from an
// embedded link first, then from a direct attachment.
package extractor

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/internal/retry"
)

const fetchTimeout = 60 * time.Second

type Extractor struct {
	mailbox    interfaces.MailboxService
	httpClient *http.Client
	exec       *retry.Executor
	log        logger.Logger
}

func New(mailbox interfaces.MailboxService, exec *retry.Executor, log logger.Logger) *Extractor {
	return &Extractor{
		mailbox:    mailbox,
		httpClient: &http.Client{Timeout: fetchTimeout},
		exec:       exec,
		log:        log,
	}
}

// Extract tries the link strategy, then the attachment strategy. A nil
// payload with nil error means the message carries no usable PDF; some days
// the sender delivers neither form in time.
func (e *Extractor) Extract(ctx context.Context, msg *models.SourceMessage) (*models.PdfPayload, error) {
	if html := msg.HTMLBody(); html != "" {
		if url := PdfLinkFromHTML(html); url != "" {
			e.log.Infof("found pdf link: %s", url)
			content, err := e.fetch(ctx, url)
			if err != nil {
				return nil, err
			}
			return &models.PdfPayload{Content: content, Origin: models.PayloadFromLink}, nil
		}
	}

	return e.extractAttachment(ctx, msg)
}

// PdfLinkFromHTML scans the hyperlinks of an HTML body. The first anchor
// whose visible text mentions "pdf" wins; failing that, the first href
// containing ".pdf".
func PdfLinkFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), "pdf") {
			found, _ = s.Attr("href")
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if strings.Contains(strings.ToLower(href), ".pdf") {
			found = href
			return false
		}
		return true
	})
	return found
}

func (e *Extractor) extractAttachment(ctx context.Context, msg *models.SourceMessage) (*models.PdfPayload, error) {
	for part := range msg.Parts() {
		if !strings.HasSuffix(strings.ToLower(part.Filename), ".pdf") {
			continue
		}

		content := part.Data
		if len(content) == 0 && part.AttachmentID != "" {
			fetched, err := e.mailbox.GetAttachment(ctx, msg.ID, part.AttachmentID)
			if err != nil {
				return nil, err
			}
			content = fetched
		}
		if len(content) == 0 {
			continue
		}

		return &models.PdfPayload{
			Content:       content,
			Origin:        models.PayloadFromAttachment,
			SuggestedName: part.Filename,
		}, nil
	}

	return nil, nil
}

func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, error) {
	return retry.Do(ctx, e.exec, "pdf fetch", func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return nil, &retry.StatusError{Code: resp.StatusCode, URL: url}
		}
		return io.ReadAll(resp.Body)
	})
}
