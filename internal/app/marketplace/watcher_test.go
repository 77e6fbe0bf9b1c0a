package marketplace_test

import (
	"context"
	"errors"
	"searchbot/internal/app/journal"
	"searchbot/internal/app/marketplace"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	result marketplace.SearchResult
	err    error
}

func (f stubFetcher) Fetch(ctx context.Context, searchTerm string) (marketplace.SearchResult, error) {
	result := f.result
	result.SearchTerm = searchTerm

	return result, f.err
}

type memoryJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (j *memoryJournal) Record(ctx context.Context, entry journal.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)

	return nil
}

func TestWatcher_SendsMatchesOnly(t *testing.T) {
	fetcher := stubFetcher{result: marketplace.SearchResult{
		Listings: []marketplace.Listing{
			{Name: "Bike A", Price: "S$150", Seller: "alice"},
			{Name: "Bike B", Price: "S$250", Seller: "bob"},
			{Name: "Bike C", Price: "S$180", Seller: "carol"},
		},
		ExportPath: "bike.csv",
	}}
	records := &memoryJournal{}
	watcher := marketplace.NewWatcher(fetcher, records, nullLogger{})

	maxPrice := 200.0
	query := marketplace.WatchQuery{ChatId: 7, SearchTerm: "bike", MaxPrice: &maxPrice}
	channel := make(chan marketplace.WatcherResult, 1)

	require.NoError(t, watcher.Run(context.Background(), query, channel))
	require.Len(t, channel, 1)

	result := <-channel

	want := []marketplace.Listing{
		{Name: "Bike A", Price: "S$150", Seller: "alice"},
		{Name: "Bike C", Price: "S$180", Seller: "carol"},
	}
	if diff := cmp.Diff(want, result.Matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, "bike.csv", result.ExportPath)
	assert.Equal(t, 7, result.Query.ChatId)

	require.Len(t, records.entries, 1)
	assert.Equal(t, journal.StatusFound, records.entries[0].Status)
	assert.Equal(t, journal.SourceScheduled, records.entries[0].Source)
	assert.Equal(t, 2, records.entries[0].MatchesCount)
}

func TestWatcher_SilentWithoutMatches(t *testing.T) {
	fetcher := stubFetcher{result: marketplace.SearchResult{
		Listings: []marketplace.Listing{{Name: "Bike B", Price: "S$250", Seller: "bob"}},
	}}
	watcher := marketplace.NewWatcher(fetcher, &memoryJournal{}, nullLogger{})

	maxPrice := 200.0
	channel := make(chan marketplace.WatcherResult, 1)

	require.NoError(t, watcher.Run(context.Background(), marketplace.WatchQuery{ChatId: 7, SearchTerm: "bike", MaxPrice: &maxPrice}, channel))
	assert.Empty(t, channel)
}

func TestWatcher_FetchFailureIsRecorded(t *testing.T) {
	records := &memoryJournal{}
	watcher := marketplace.NewWatcher(stubFetcher{err: marketplace.ErrRetriesExhausted}, records, nullLogger{})
	channel := make(chan marketplace.WatcherResult, 1)

	err := watcher.Run(context.Background(), marketplace.WatchQuery{ChatId: 7, SearchTerm: "bike"}, channel)

	assert.True(t, errors.Is(err, marketplace.ErrRetriesExhausted))
	assert.Empty(t, channel)
	require.Len(t, records.entries, 1)
	assert.Equal(t, journal.StatusFailed, records.entries[0].Status)
}
