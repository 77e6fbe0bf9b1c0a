package database_test

import (
	"searchbot/internal/app/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMigrationName(t *testing.T) {
	createdAt := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	cases := map[string]string{
		"CreateSearchJournalTable": "2024_03_05_140709_create_search_journal_table",
		"add export path":          "2024_03_05_140709_add_export_path",
		"  add-index-on-chat-id  ": "2024_03_05_140709_add_index_on_chat_id",
	}

	for name, expected := range cases {
		assert.Equal(t, expected, database.GetMigrationName(name, createdAt), name)
	}
}
