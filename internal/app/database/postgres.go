package database

import (
	"context"
	"fmt"
	"net/url"
	"searchbot/internal/app/config"
	"searchbot/internal/app/helpers"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	Context    context.Context
	Connection *pgxpool.Pool
}

func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, getDsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	db := &Postgres{
		Context:    ctx,
		Connection: pool,
	}

	if err := db.prepareTables(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to prepare tables: %w", err)
	}

	return db, nil
}

func (db *Postgres) Ping() error {
	return db.Connection.Ping(db.Context)
}

func (db *Postgres) CloseConnection() {
	db.Connection.Close()
}

func getDsn(cfg config.DatabaseConfig) string {
	return helpers.ConcatStrings(
		"postgres://",
		url.QueryEscape(cfg.Username), ":", url.QueryEscape(cfg.Password),
		"@", cfg.Host, ":", strconv.Itoa(cfg.Port),
		"/", cfg.Database,
	)
}

func (db *Postgres) prepareTables() error {
	sql := `CREATE TABLE IF NOT EXISTS migrations(
		id SERIAL PRIMARY KEY,
		migration VARCHAR(255) NOT NULL,
		batch INTEGER NOT NULL
	);`

	_, err := db.Connection.Exec(db.Context, sql)

	return err
}
