// Package locator finds the day's source message under noisy search
// conditions, relaxing the query one constraint at a time.
package locator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/locale"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
)

type Locator struct {
	mailbox interfaces.MailboxService
	cfg     *config.MailboxConfig
	log     logger.Logger
}

func New(mailbox interfaces.MailboxService, cfg *config.MailboxConfig, log logger.Logger) *Locator {
	return &Locator{mailbox: mailbox, cfg: cfg, log: log}
}

// FindDailyMessage locates the single message for the given day, midnight
// in the configured zone. Absence is not an error: a nil message means the
// sender has not delivered yet.
func (l *Locator) FindDailyMessage(ctx context.Context, day time.Time) (*models.SourceMessage, error) {
	phrase := locale.SubjectDatePhrase(day)
	dateRange := fmt.Sprintf("after:%d before:%d", day.Unix(), day.AddDate(0, 0, 1).Unix())

	tiers := []string{
		fmt.Sprintf("from:%s subject:%q subject:%q %s", l.cfg.SenderFilter, l.cfg.SubjectPrefix, phrase, dateRange),
		fmt.Sprintf("from:%s subject:%q %s", l.cfg.SenderFilter, phrase, dateRange),
		fmt.Sprintf("from:%s %s", l.cfg.SenderFilter, dateRange),
	}

	for tier, query := range tiers {
		candidates, err := l.fetchCandidates(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}

		chosen := pickCandidate(candidates, phrase)
		if tier == len(tiers)-1 {
			// Last-resort tier: sender plus date range only. The pick can
			// be wrong if the sender delivered unrelated messages today.
			l.log.Warnf("date phrase %q not matched, falling back to latest message from %s (%s)",
				phrase, l.cfg.SenderFilter, chosen.ID)
		}
		return chosen, nil
	}

	return nil, nil
}

func (l *Locator) fetchCandidates(ctx context.Context, query string) ([]*models.SourceMessage, error) {
	ids, err := l.mailbox.Search(ctx, query, l.cfg.MaxSearchHits)
	if err != nil {
		return nil, err
	}

	candidates := make([]*models.SourceMessage, 0, len(ids))
	for _, id := range ids {
		msg, err := l.mailbox.GetMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, msg)
	}
	return candidates, nil
}

// pickCandidate prefers a subject carrying the expected date phrase, then
// the latest arrival.
func pickCandidate(candidates []*models.SourceMessage, phrase string) *models.SourceMessage {
	lowerPhrase := strings.ToLower(phrase)

	var best *models.SourceMessage
	bestHasPhrase := false
	for _, c := range candidates {
		hasPhrase := strings.Contains(strings.ToLower(c.Subject), lowerPhrase)
		switch {
		case best == nil:
		case hasPhrase && !bestHasPhrase:
		case hasPhrase == bestHasPhrase && c.InternalDate.After(best.InternalDate):
		default:
			continue
		}
		best = c
		bestHasPhrase = hasPhrase
	}
	return best
}
