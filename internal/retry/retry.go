// Package retry wraps remote calls in bounded exponential backoff. Every
// network call in the pipeline goes through one Executor instead of ad hoc
// per-site loops.
package retry

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"

	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
)

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

type Executor struct {
	cfg   Config
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

func NewExecutor(cfg Config, log logger.Logger) *Executor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	return &Executor{cfg: cfg, log: log, sleep: sleepContext}
}

// Execute runs op, retrying retriable failures with delays of
// min(MaxDelay, BaseDelay*2^(attempt-1)). Non-retriable failures and
// exhaustion surface to the caller unchanged apart from wrapping.
func (e *Executor) Execute(ctx context.Context, name string, op func() error) error {
	b := &backoff.Backoff{
		Min:    e.cfg.BaseDelay,
		Max:    e.cfg.MaxDelay,
		Factor: 2,
	}

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsRetriable(err) {
			return err
		}
		if attempt >= e.cfg.MaxAttempts {
			return errors.Wrapf(err, "%s: giving up after %d attempts", name, attempt)
		}

		delay := b.Duration()
		e.log.Warnf("%s failed (attempt %d/%d), retrying in %s: %v",
			name, attempt, e.cfg.MaxAttempts, delay, err)
		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Do is Execute for operations that return a value.
func Do[T any](ctx context.Context, e *Executor, name string, op func() (T, error)) (T, error) {
	var result T
	err := e.Execute(ctx, name, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

// StatusError reports a non-success HTTP status from a plain fetch.
// All such statuses retry.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.Code, e.URL)
}

// IsRetriable classifies a failure. Rate limits, server errors, transient
// SMTP replies and transport-level errors retry; everything else, auth and
// validation included, surfaces immediately.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code >= 500
	}

	var serr *StatusError
	if errors.As(err, &serr) {
		return true
	}

	var terr *textproto.Error
	if errors.As(err, &terr) {
		return terr.Code/100 == 4
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}

	// Dropped connections mid-session.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
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
