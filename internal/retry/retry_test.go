package retry

import (
	"context"
	"io"
	"net"
	"net/textproto"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
)

func testLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{DevMode: true})
	appLogger.InitLogger()
	return appLogger
}

func testExecutor(maxAttempts int, delays *[]time.Duration) *Executor {
	e := NewExecutor(Config{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}, testLogger())
	e.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return e
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	var delays []time.Duration
	e := testExecutor(5, &delays)

	calls := 0
	err := e.Execute(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return &StatusError{Code: 503, URL: "http://example.test"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestExecuteNonRetriableImmediate(t *testing.T) {
	var delays []time.Duration
	e := testExecutor(5, &delays)

	fatal := errors.New("bad credentials")
	calls := 0
	err := e.Execute(context.Background(), "op", func() error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	e := testExecutor(3, &delays)

	transient := &StatusError{Code: 500, URL: "http://example.test"}
	calls := 0
	err := e.Execute(context.Background(), "op", func() error {
		calls++
		return transient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}

func TestExecuteDelaysAreCapped(t *testing.T) {
	var delays []time.Duration
	e := NewExecutor(Config{
		MaxAttempts: 6,
		BaseDelay:   time.Second,
		MaxDelay:    4 * time.Second,
	}, testLogger())
	e.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_ = e.Execute(context.Background(), "op", func() error {
		return &StatusError{Code: 502, URL: "http://example.test"}
	})

	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second, 4 * time.Second,
	}, delays)
}

func TestDoReturnsValue(t *testing.T) {
	var delays []time.Duration
	e := testExecutor(5, &delays)

	calls := 0
	got, err := Do(context.Background(), e, "op", func() (string, error) {
		calls++
		if calls == 1 {
			return "", &StatusError{Code: 429, URL: "http://example.test"}
		}
		return "payload", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, 2, calls)
}

func TestExecuteCancelledContext(t *testing.T) {
	e := NewExecutor(Config{MaxAttempts: 5, BaseDelay: time.Minute, MaxDelay: time.Minute}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Execute(ctx, "op", func() error {
		return &StatusError{Code: 503, URL: "http://example.test"}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"forbidden", &googleapi.Error{Code: 403}, false},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"http status", &StatusError{Code: 404, URL: "u"}, true},
		{"smtp transient", &textproto.Error{Code: 421, Msg: "closing"}, true},
		{"smtp permanent", &textproto.Error{Code: 550, Msg: "no such user"}, false},
		{"network timeout", &net.DNSError{IsTimeout: true}, true},
		{"dropped connection", io.EOF, true},
		{"wrapped transient", errors.Wrap(&googleapi.Error{Code: 500}, "search"), true},
		{"plain error", errors.New("validation failed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetriable(tt.err))
		})
	}
}
