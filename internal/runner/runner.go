// Package runner drives one pipeline invocation: window gate, dedup check,
// locate, extract, deposit, notify. Strictly sequential; all state lives in
// the external mailbox and store.
package runner

import (
	"context"
	"time"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	rassegna_errors "github.com/poggig1971/telpress-rassegna-bot/errors"
	"github.com/poggig1971/telpress-rassegna-bot/internal/locale"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/services/deposit"
)

type MessageLocator interface {
	FindDailyMessage(ctx context.Context, day time.Time) (*models.SourceMessage, error)
}

type PayloadExtractor interface {
	Extract(ctx context.Context, msg *models.SourceMessage) (*models.PdfPayload, error)
}

type DepositManager interface {
	Existing(ctx context.Context, name, folderID string) (*models.DepositRecord, error)
	EnsureDeposited(ctx context.Context, content []byte, name, folderID string, force bool) (deposit.Result, *models.DepositRecord, error)
}

type Notifier interface {
	Notify(ctx context.Context, record *models.DepositRecord, day time.Time) error
}

type Options struct {
	// ForceNow bypasses the daily time window.
	ForceNow bool
	// Force replaces an already deposited artifact.
	Force bool
	// On pins the effective date instead of today.
	On *time.Time
}

type Result struct {
	Outcome models.RunOutcome
	Name    string
	Record  *models.DepositRecord
}

type Runner struct {
	cfg       *config.Config
	locator   MessageLocator
	extractor PayloadExtractor
	deposits  DepositManager
	notifier  Notifier
	log       logger.Logger
	now       func() time.Time
}

func New(cfg *config.Config, loc MessageLocator, ext PayloadExtractor, dep DepositManager, not Notifier, log logger.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		locator:   loc,
		extractor: ext,
		deposits:  dep,
		notifier:  not,
		log:       log,
		now:       time.Now,
	}
}

// Run executes one full pipeline pass. Absence outcomes terminate the run
// successfully; only retriable exhaustion and non-retriable failures return
// an error.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	loc, err := r.cfg.App.Location()
	if err != nil {
		return Result{}, err
	}
	now := r.now().In(loc)

	if !opts.ForceNow {
		within, err := r.cfg.App.WithinWindow(now)
		if err != nil {
			return Result{}, err
		}
		if !within {
			r.log.Infof("outside run window %s-%s, nothing to do",
				r.cfg.App.WindowStart, r.cfg.App.WindowEnd)
			return Result{Outcome: models.OutcomeNotInWindow}, nil
		}
	}

	if r.cfg.Store.FolderID == "" {
		return Result{}, rassegna_errors.ErrMissingFolderID
	}

	day := midnight(now, loc)
	latestMode := opts.On == nil
	if opts.On != nil {
		day = midnight(opts.On.In(loc), loc)
	}
	name := models.ArtifactName(day)

	// Dedup check comes before any mailbox traffic: a rerun on an already
	// deposited day must not search or download anything.
	existing, err := r.deposits.Existing(ctx, name, r.cfg.Store.FolderID)
	if err != nil {
		return Result{}, err
	}
	if existing != nil && !opts.Force {
		r.log.Infof("%s already deposited (id=%s)", name, existing.ID)
		return Result{Outcome: models.OutcomeSkipped, Name: name, Record: existing}, nil
	}

	msg, err := r.locator.FindDailyMessage(ctx, day)
	if err != nil {
		return Result{}, err
	}
	if msg == nil {
		r.log.Infof("no source message for %s yet", name)
		return Result{Outcome: models.OutcomeNoMessage, Name: name}, nil
	}
	r.log.Infof("found message: %s", msg.Subject)

	// In latest mode the subject's own date phrase is more trustworthy
	// than the wall clock; adopt it when it parses to a different day.
	if latestMode {
		if subjectDay, ok := locale.ParseSubjectDate(msg.Subject); ok {
			if subjectName := models.ArtifactName(subjectDay); subjectName != name {
				name = subjectName
				day = subjectDay
				existing, err = r.deposits.Existing(ctx, name, r.cfg.Store.FolderID)
				if err != nil {
					return Result{}, err
				}
				if existing != nil && !opts.Force {
					r.log.Infof("%s already deposited (id=%s)", name, existing.ID)
					return Result{Outcome: models.OutcomeSkipped, Name: name, Record: existing}, nil
				}
			}
		}
	}

	payload, err := r.extractor.Extract(ctx, msg)
	if err != nil {
		return Result{}, err
	}
	if payload == nil {
		r.log.Infof("message %s carries no usable pdf", msg.ID)
		return Result{Outcome: models.OutcomeNoPayload, Name: name}, nil
	}
	r.log.Infof("extracted %d bytes (%s)", len(payload.Content), payload.Origin)

	result, record, err := r.deposits.EnsureDeposited(ctx, payload.Content, name, r.cfg.Store.FolderID, opts.Force)
	if err != nil {
		return Result{}, err
	}
	r.log.Infof("deposit %s: %s (id=%s)", result, record.Name, record.ID)

	// Notification is best effort: the artifact is durable either way.
	if result != deposit.ResultSkipped {
		if err := r.notifier.Notify(ctx, record, day); err != nil {
			r.log.Warnf("notification failed, artifact remains deposited: %v", err)
		}
	}

	return Result{Outcome: outcomeFor(result), Name: name, Record: record}, nil
}

func outcomeFor(result deposit.Result) models.RunOutcome {
	switch result {
	case deposit.ResultReplaced:
		return models.OutcomeReplaced
	case deposit.ResultSkipped:
		return models.OutcomeSkipped
	default:
		return models.OutcomeUploaded
	}
}

func midnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
