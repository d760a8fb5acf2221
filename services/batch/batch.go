// Package batch is the standalone bulk-notification sender: the day's PDF
// attached, recipients fanned out in fixed-size blind batches.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/locale"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/internal/retry"
	"github.com/poggig1971/telpress-rassegna-bot/internal/utils"
	"github.com/poggig1971/telpress-rassegna-bot/services/notify"
)

type Sender struct {
	cfg     *config.BatchConfig
	smtpCfg *config.SMTPConfig
	mailer  interfaces.Mailer
	exec    *retry.Executor
	log     logger.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewSender(cfg *config.BatchConfig, smtpCfg *config.SMTPConfig, mailer interfaces.Mailer, exec *retry.Executor, log logger.Logger) *Sender {
	return &Sender{
		cfg:     cfg,
		smtpCfg: smtpCfg,
		mailer:  mailer,
		exec:    exec,
		log:     log,
		sleep:   sleepContext,
	}
}

// Run mails the day's PDF to the whole distribution list in batches and
// reports how many recipients were addressed. A failed batch is logged and
// the fan-out continues; each batch send goes through the retry engine
// first.
func (s *Sender) Run(ctx context.Context, day time.Time) (int, error) {
	recipients, err := notify.LoadRecipients(s.cfg.RecipientsFile)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load recipient list")
	}
	if len(recipients) == 0 {
		s.log.Infof("recipient list is empty, nothing to send")
		return 0, nil
	}
	s.log.Infof("sending to %d recipients in batches of %d", len(recipients), s.cfg.BatchSize)

	attachment, name, err := s.readAttachment(day)
	if err != nil {
		return 0, err
	}

	subject := fmt.Sprintf("%s %s", s.cfg.Subject, locale.SubjectDatePhrase(day))
	from := s.smtpCfg.Username

	size := s.cfg.BatchSize
	if size <= 0 {
		size = 10
	}

	failed := 0
	for start := 0; start < len(recipients); start += size {
		end := start + size
		if end > len(recipients) {
			end = len(recipients)
		}
		group := recipients[start:end]

		message, err := s.buildMessage(from, group, subject, attachment, name)
		if err != nil {
			return 0, err
		}

		envelope := append([]string{from}, group...)
		err = s.exec.Execute(ctx, "batch send", func() error {
			return s.mailer.Send(ctx, from, envelope, message)
		})
		if err != nil {
			failed++
			s.log.Errorf("batch %d-%d failed: %v", start, end, err)
		} else {
			s.log.Infof("batch %d-%d sent (%d recipients)", start, end, len(group))
		}

		if end < len(recipients) {
			if err := s.sleep(ctx, s.cfg.BatchDelay); err != nil {
				return 0, err
			}
		}
	}

	if failed > 0 {
		return len(recipients), errors.Errorf("%d batches failed", failed)
	}
	return len(recipients), nil
}

func (s *Sender) readAttachment(day time.Time) ([]byte, string, error) {
	path := s.cfg.AttachmentPath
	if s.cfg.AttachmentDir != "" {
		path = filepath.Join(s.cfg.AttachmentDir, models.ArtifactName(day))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "attachment %s not readable", path)
	}
	return content, filepath.Base(path), nil
}

func (s *Sender) buildMessage(from string, group []string, subject string, attachment []byte, name string) ([]byte, error) {
	builder := enmime.Builder().
		From(s.smtpCfg.SenderName, from).
		To(s.smtpCfg.SenderName, from).
		Subject(subject).
		Text([]byte(s.cfg.Body)).
		Header("Message-Id", utils.GenerateMessageID(addressDomain(from))).
		AddAttachment(attachment, "application/pdf", name)

	for _, recipient := range group {
		builder = builder.BCC("", recipient)
	}

	part, err := builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build batch message")
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to encode batch message")
	}
	return buf.Bytes(), nil
}

func addressDomain(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == '@' {
			return addr[i+1:]
		}
	}
	return addr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
