package marketplace

import (
	"context"
	"errors"
	"fmt"
	"searchbot/internal/app/logger"
	"time"
)

var (
	ErrRetriesExhausted = errors.New("fetch retries exhausted")
	ErrFetchFailed      = errors.New("fetch failed")
)

type FetcherOptions struct {
	BaseUrl        string
	MaxRetries     int
	RetryDelay     time.Duration
	AttemptTimeout time.Duration
}

// Fetcher renders a search page with retries, parses it and exports results.
// It never returns a partially parsed result: on failure listings are empty.
type Fetcher struct {
	renderer  Renderer
	exporter  *Exporter
	snapshots *SnapshotWriter
	options   FetcherOptions
	logger    logger.LoggerInterface
}

func NewFetcher(renderer Renderer, exporter *Exporter, snapshots *SnapshotWriter, options FetcherOptions, logger logger.LoggerInterface) *Fetcher {
	if options.MaxRetries < 1 {
		options.MaxRetries = 3
	}

	return &Fetcher{
		renderer:  renderer,
		exporter:  exporter,
		snapshots: snapshots,
		options:   options,
		logger:    logger,
	}
}

// Fetch listings for the search term.
func (f *Fetcher) Fetch(ctx context.Context, searchTerm string) (SearchResult, error) {
	result := SearchResult{SearchTerm: searchTerm}
	url := GetSearchUrl(f.options.BaseUrl, searchTerm)

	for attempt := 1; attempt <= f.options.MaxRetries; attempt++ {
		if attempt > 1 {
			f.logger.Println("Retrying in", f.options.RetryDelay, "...")

			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(f.options.RetryDelay):
			}
		}

		f.logger.Printf("Fetch attempt %d/%d for %q", attempt, f.options.MaxRetries, searchTerm)

		page, err := f.render(ctx, url)

		if err != nil && ctx.Err() != nil {
			return result, ctx.Err()
		}

		if err != nil && f.isRetryable(err) {
			f.logger.Println(logger.PrefixWarning, "Attempt", attempt, "failed:", err)
			continue
		}

		if err != nil {
			f.logger.Println(logger.PrefixError, "Unable to fetch", url, "-", err)
			f.saveSnapshot(SnapshotError, page)

			return result, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}

		parsed, err := ParseListings(page.Html)
		if err != nil {
			f.logger.Println(logger.PrefixError, "Unable to parse", url, "-", err)
			f.saveSnapshot(SnapshotError, page)

			return result, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}

		f.logger.Println("Found", parsed.CardsFound, "listing card(s),", parsed.IncompleteCards, "incomplete")

		if len(parsed.Listings) == 0 {
			f.saveSnapshot(SnapshotNoListings, page)
			return result, nil
		}

		result.Listings = parsed.Listings
		result.ExportPath = f.export(searchTerm, parsed.Listings)

		return result, nil
	}

	f.logger.Println(logger.PrefixError, "Max retries reached for", url)

	return result, ErrRetriesExhausted
}

// Render a page within a single attempt timeout.
func (f *Fetcher) render(ctx context.Context, url string) (Page, error) {
	attemptCtx := ctx
	if f.options.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, f.options.AttemptTimeout)
		defer cancel()
	}

	page, err := f.renderer.Render(attemptCtx, url)
	if err != nil && attemptCtx.Err() != nil && ctx.Err() == nil {
		return page, context.DeadlineExceeded
	}

	return page, err
}

func (f *Fetcher) isRetryable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrBrowserLaunch)
}

func (f *Fetcher) saveSnapshot(prefix string, page Page) {
	if f.snapshots == nil {
		return
	}

	path, err := f.snapshots.Save(prefix, page)
	if err != nil {
		f.logger.Println(logger.PrefixWarning, "Unable to save debug snapshot:", err)
		return
	}

	f.logger.Println("Debug snapshot saved to", path)
}

// Export listings, an export failure keeps the listings usable.
func (f *Fetcher) export(searchTerm string, listings []Listing) string {
	if f.exporter == nil {
		return ""
	}

	path, err := f.exporter.Export(searchTerm, listings)
	if err != nil {
		f.logger.Println(logger.PrefixError, "Unable to export results:", err)
		return ""
	}

	f.logger.Println("Results exported to", path)

	return path
}
