package journal

import (
	"context"
	"searchbot/internal/app/database"
	"searchbot/internal/app/helpers"

	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	db *database.Postgres
}

func NewPostgresRepository(db *database.Postgres) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// Insert journal entry.
func (r *PostgresRepository) Record(ctx context.Context, entry Entry) error {
	sql := `INSERT INTO search_journal
		(chat_id, search_term, source, status, listings_count, matches_count, export_path, error, created_at)
		VALUES
		(@chat_id, @search_term, @source, @status, @listings_count, @matches_count, @export_path, @error, @created_at)`

	args := pgx.NamedArgs{
		"chat_id":        entry.ChatId,
		"search_term":    helpers.TruncateString(entry.SearchTerm, 254),
		"source":         string(entry.Source),
		"status":         string(entry.Status),
		"listings_count": entry.ListingsCount,
		"matches_count":  entry.MatchesCount,
		"export_path":    entry.ExportPath,
		"error":          entry.Error,
		"created_at":     entry.CreatedAt,
	}

	_, err := r.db.Connection.Exec(ctx, sql, args)

	return err
}

// Find latest entries of the chat.
func (r *PostgresRepository) FindLatestForChat(ctx context.Context, chatId int, limit int) ([]Entry, error) {
	sql := `SELECT chat_id, search_term, source, status, listings_count, matches_count, export_path, error, created_at
		FROM search_journal
		WHERE chat_id = @chat_id
		ORDER BY id DESC
		LIMIT @limit`

	rows, err := r.db.Connection.Query(ctx, sql, pgx.NamedArgs{
		"chat_id": chatId,
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var entry Entry
		var source, status string

		err := row.Scan(
			&entry.ChatId,
			&entry.SearchTerm,
			&source,
			&status,
			&entry.ListingsCount,
			&entry.MatchesCount,
			&entry.ExportPath,
			&entry.Error,
			&entry.CreatedAt,
		)

		entry.Source = Source(source)
		entry.Status = Status(status)

		return entry, err
	})
}
