package journal_test

import (
	"context"
	"errors"
	"searchbot/internal/app/journal"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, journal.StatusFound, journal.StatusOf(3, nil))
	assert.Equal(t, journal.StatusEmpty, journal.StatusOf(0, nil))
	assert.Equal(t, journal.StatusFailed, journal.StatusOf(0, errors.New("timeout")))
}

func TestNewEntry(t *testing.T) {
	entry := journal.NewEntry(42, "bike", journal.SourceScheduled, 3, 2, "results.csv", nil)

	assert.Equal(t, 42, entry.ChatId)
	assert.Equal(t, journal.StatusFound, entry.Status)
	assert.Equal(t, 2, entry.MatchesCount)
	assert.Empty(t, entry.Error)
	assert.False(t, entry.CreatedAt.IsZero())

	failed := journal.NewEntry(42, "bike", journal.SourceSearch, 0, 0, "", errors.New("fetch retries exhausted"))

	assert.Equal(t, journal.StatusFailed, failed.Status)
	assert.Equal(t, "fetch retries exhausted", failed.Error)
}

func TestNoopJournal(t *testing.T) {
	var j journal.Journal = journal.NoopJournal{}

	require.NoError(t, j.Record(context.Background(), journal.Entry{}))
}
