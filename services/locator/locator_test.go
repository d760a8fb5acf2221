package locator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
)

type fakeMailbox struct {
	// responses are consumed one per Search call, in order.
	responses [][]string
	queries   []string
	messages  map[string]*models.SourceMessage
}

func (f *fakeMailbox) Search(_ context.Context, query string, _ int64) ([]string, error) {
	f.queries = append(f.queries, query)
	if len(f.responses) == 0 {
		return nil, nil
	}
	ids := f.responses[0]
	f.responses = f.responses[1:]
	return ids, nil
}

func (f *fakeMailbox) GetMessage(_ context.Context, id string) (*models.SourceMessage, error) {
	return f.messages[id], nil
}

func (f *fakeMailbox) GetAttachment(_ context.Context, _, _ string) ([]byte, error) {
	return nil, nil
}

func testLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{DevMode: true})
	appLogger.InitLogger()
	return appLogger
}

func testConfig() *config.MailboxConfig {
	return &config.MailboxConfig{
		SenderFilter:  "rassegnastampa@telpress.it",
		SubjectPrefix: "Rassegna STAMPA",
		MaxSearchHits: 10,
	}
}

var day = time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC)

func message(id, subject string, arrival time.Time) *models.SourceMessage {
	return &models.SourceMessage{ID: id, Subject: subject, InternalDate: arrival}
}

func TestFindsOnFirstTier(t *testing.T) {
	mailbox := &fakeMailbox{
		responses: [][]string{{"m1"}},
		messages: map[string]*models.SourceMessage{
			"m1": message("m1", "Rassegna STAMPA del 8 settembre 2025", day.Add(7*time.Hour)),
		},
	}
	l := New(mailbox, testConfig(), testLogger())

	msg, err := l.FindDailyMessage(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "m1", msg.ID)
	assert.Len(t, mailbox.queries, 1)
	assert.Contains(t, mailbox.queries[0], `from:rassegnastampa@telpress.it`)
	assert.Contains(t, mailbox.queries[0], `subject:"Rassegna STAMPA"`)
	assert.Contains(t, mailbox.queries[0], `subject:"del 8 settembre 2025"`)
}

func TestRelaxesSubjectKeyword(t *testing.T) {
	mailbox := &fakeMailbox{
		responses: [][]string{{}, {"m2"}},
		messages: map[string]*models.SourceMessage{
			"m2": message("m2", "Press review del 8 settembre 2025", day.Add(6*time.Hour)),
		},
	}
	l := New(mailbox, testConfig(), testLogger())

	msg, err := l.FindDailyMessage(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "m2", msg.ID)
	require.Len(t, mailbox.queries, 2)
	assert.NotContains(t, mailbox.queries[1], `subject:"Rassegna STAMPA"`)
	assert.Contains(t, mailbox.queries[1], `subject:"del 8 settembre 2025"`)
}

func TestLastResortPicksLatest(t *testing.T) {
	mailbox := &fakeMailbox{
		responses: [][]string{{}, {}, {"old", "new"}},
		messages: map[string]*models.SourceMessage{
			"old": message("old", "qualcosa", day.Add(2*time.Hour)),
			"new": message("new", "altro", day.Add(9*time.Hour)),
		},
	}
	l := New(mailbox, testConfig(), testLogger())

	msg, err := l.FindDailyMessage(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "new", msg.ID)
	assert.Len(t, mailbox.queries, 3)
}

func TestPrefersDatePhraseOverArrival(t *testing.T) {
	mailbox := &fakeMailbox{
		responses: [][]string{{"early", "late"}},
		messages: map[string]*models.SourceMessage{
			"early": message("early", "Rassegna STAMPA del 8 settembre 2025", day.Add(time.Hour)),
			"late":  message("late", "Rassegna STAMPA straordinaria", day.Add(10*time.Hour)),
		},
	}
	l := New(mailbox, testConfig(), testLogger())

	msg, err := l.FindDailyMessage(context.Background(), day)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "early", msg.ID)
}

func TestAbsenceIsNotAnError(t *testing.T) {
	mailbox := &fakeMailbox{responses: [][]string{{}, {}, {}}}
	l := New(mailbox, testConfig(), testLogger())

	msg, err := l.FindDailyMessage(context.Background(), day)
	require.NoError(t, err)
	assert.Nil(t, msg)
	assert.Len(t, mailbox.queries, 3)
}
