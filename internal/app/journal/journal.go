// Package journal records the outcome of every search, so "no listings" and
// "fetch failed" stay distinguishable after the user saw the same reply.
package journal

import (
	"context"
	"time"
)

type Source string

const (
	SourceSearch    Source = "search"
	SourceScheduled Source = "scheduled"
)

type Status string

const (
	StatusFound  Status = "found"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

type Entry struct {
	ChatId        int
	SearchTerm    string
	Source        Source
	Status        Status
	ListingsCount int
	MatchesCount  int
	ExportPath    string
	Error         string
	CreatedAt     time.Time
}

type Journal interface {
	Record(ctx context.Context, entry Entry) error
}

// Get status of a finished fetch.
func StatusOf(listingsCount int, err error) Status {
	if err != nil {
		return StatusFailed
	}

	if listingsCount == 0 {
		return StatusEmpty
	}

	return StatusFound
}

// Build entry for a finished fetch.
func NewEntry(chatId int, searchTerm string, source Source, listingsCount int, matchesCount int, exportPath string, err error) Entry {
	entry := Entry{
		ChatId:        chatId,
		SearchTerm:    searchTerm,
		Source:        source,
		Status:        StatusOf(listingsCount, err),
		ListingsCount: listingsCount,
		MatchesCount:  matchesCount,
		ExportPath:    exportPath,
		CreatedAt:     time.Now(),
	}

	if err != nil {
		entry.Error = err.Error()
	}

	return entry
}

// NoopJournal is used when no database is configured.
type NoopJournal struct{}

func (NoopJournal) Record(ctx context.Context, entry Entry) error {
	return nil
}
