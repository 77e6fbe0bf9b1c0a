package marketplace

import (
	"context"
	"searchbot/internal/app/journal"
	"searchbot/internal/app/logger"
)

// SearchFetcher is implemented by Fetcher.
type SearchFetcher interface {
	Fetch(ctx context.Context, searchTerm string) (SearchResult, error)
}

// WatchQuery is a recurring search of a single chat.
type WatchQuery struct {
	ChatId     int
	SearchTerm string
	MaxPrice   *float64
}

// WatcherResult is sent for every tick with at least one matching listing.
type WatcherResult struct {
	Query      WatchQuery
	Matches    []Listing
	Total      int
	ExportPath string
}

// Watcher runs scheduled searches and pushes matches into a channel.
type Watcher struct {
	fetcher SearchFetcher
	journal journal.Journal
	logger  logger.LoggerInterface
}

func NewWatcher(fetcher SearchFetcher, journal journal.Journal, logger logger.LoggerInterface) *Watcher {
	return &Watcher{
		fetcher: fetcher,
		journal: journal,
		logger:  logger,
	}
}

// Run single watch tick. Nothing is sent when no listing matches.
func (w *Watcher) Run(ctx context.Context, query WatchQuery, channel chan<- WatcherResult) error {
	w.logger.Println("Running watcher for chat", query.ChatId, "-", query.SearchTerm)

	result, err := w.fetcher.Fetch(ctx, query.SearchTerm)
	matches := MatchMaxPrice(result.Listings, query.MaxPrice)

	w.record(ctx, query, result, len(matches), err)

	if err != nil {
		w.logger.Println(logger.PrefixError, "Watcher fetch failed for chat", query.ChatId, "-", err)
		return err
	}

	if len(matches) == 0 {
		w.logger.Println("Watcher complete for chat", query.ChatId, ", nothing matched")
		return nil
	}

	w.logger.Println("Watcher complete for chat", query.ChatId, ", matched", len(matches), "of", len(result.Listings))

	select {
	case channel <- WatcherResult{
		Query:      query,
		Matches:    matches,
		Total:      len(result.Listings),
		ExportPath: result.ExportPath,
	}:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

func (w *Watcher) record(ctx context.Context, query WatchQuery, result SearchResult, matchesCount int, fetchErr error) {
	if w.journal == nil {
		return
	}

	entry := journal.NewEntry(query.ChatId, query.SearchTerm, journal.SourceScheduled, len(result.Listings), matchesCount, result.ExportPath, fetchErr)

	if err := w.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		w.logger.Println(logger.PrefixWarning, "Unable to record search journal:", err)
	}
}
