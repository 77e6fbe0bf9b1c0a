package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"searchbot/internal/app/helpers"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stoewer/go-strcase"
)

const (
	migrationsDir        string = "schema"
	fileNamePrefixFormat string = "2006_01_02_150405"
	fileNameSuffixUp     string = ".up.sql"
	fileNameSuffixDown   string = ".down.sql"
)

var ErrEmptyMigrationName = errors.New("empty migration name")

// Apply new migrations in a single batch.
func (db *Postgres) Migrate() error {
	files, err := db.getFilesToMigrate()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch, err := db.getLatestBatch()
	if err != nil {
		return err
	}

	batch += 1

	fmt.Println("Running migrations.")

	for _, fileName := range files {
		start := time.Now()
		migrationName := strings.TrimSuffix(fileName, fileNameSuffixUp)

		fmt.Print(migrationName)

		if err := db.runInTransaction(fileName, func(tx pgx.Tx) error {
			return db.addMigration(tx, migrationName, batch)
		}); err != nil {
			fmt.Println()
			return fmt.Errorf("migrate %s: %w", migrationName, err)
		}

		fmt.Println(helpers.ConcatStrings("..........", time.Since(start).Round(time.Millisecond).String(), " DONE"))
	}

	return nil
}

// Rollback latest migrations in single batch.
func (db *Postgres) RollbackMigrations() error {
	files, err := db.getFilesToRollback()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("Nothing to rollback.")
		return nil
	}

	fmt.Println("Rolling back migrations.")

	for _, fileName := range files {
		start := time.Now()
		migrationName := strings.TrimSuffix(fileName, fileNameSuffixDown)

		fmt.Print(migrationName)

		if err := db.runInTransaction(fileName, func(tx pgx.Tx) error {
			return db.deleteMigration(tx, migrationName)
		}); err != nil {
			fmt.Println()
			return fmt.Errorf("rollback %s: %w", migrationName, err)
		}

		fmt.Println(helpers.ConcatStrings("..........", time.Since(start).Round(time.Millisecond).String(), " DONE"))
	}

	return nil
}

// Create new pair of up/down migration files.
func CreateNewMigration(name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyMigrationName
	}

	dir, err := getMigrationsDir()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	migrationName := GetMigrationName(name, time.Now())

	var created []string

	for _, suffix := range []string{fileNameSuffixUp, fileNameSuffixDown} {
		fileName := helpers.ConcatStrings(migrationName, suffix)

		file, err := os.Create(filepath.Join(dir, fileName))
		if err != nil {
			return created, fmt.Errorf("create %s: %w", fileName, err)
		}

		file.Close()

		created = append(created, filepath.Join(migrationsDir, fileName))
	}

	return created, nil
}

// Get migration name: creation date prefix and snake cased name.
func GetMigrationName(name string, createdAt time.Time) string {
	return helpers.ConcatStrings(createdAt.Format(fileNamePrefixFormat), "_", strcase.SnakeCase(strings.TrimSpace(name)))
}

// Execute migration file and bookkeeping within a single transaction.
func (db *Postgres) runInTransaction(fileName string, bookkeeping func(tx pgx.Tx) error) error {
	dir, err := getMigrationsDir()
	if err != nil {
		return err
	}

	fileContent, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		return err
	}

	transaction, err := db.Connection.Begin(db.Context)
	if err != nil {
		return err
	}

	defer transaction.Rollback(db.Context)

	sql := strings.TrimSpace(string(fileContent))

	if sql != "" {
		if _, err := transaction.Exec(db.Context, sql); err != nil {
			return err
		}
	}

	if err := bookkeeping(transaction); err != nil {
		return err
	}

	return transaction.Commit(db.Context)
}

// Get migrations files directory.
func getMigrationsDir() (string, error) {
	rootDir, err := helpers.GetRootDir()
	if err != nil {
		return "", fmt.Errorf("unable to get root directory: %w", err)
	}

	return filepath.Join(rootDir, migrationsDir), nil
}

// Get list of files that must be migrated.
func (db *Postgres) getFilesToMigrate() ([]string, error) {
	dir, err := getMigrationsDir()
	if err != nil {
		return nil, err
	}

	filesList, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read migration files: %w", err)
	}

	var migrations []string

	for _, file := range filesList {
		fileName := file.Name()

		if !strings.HasSuffix(fileName, fileNameSuffixUp) {
			continue
		}

		isMigrated, err := db.checkIfMigrated(strings.TrimSuffix(fileName, fileNameSuffixUp))
		if err != nil {
			return nil, err
		}

		if isMigrated {
			continue
		}

		migrations = append(migrations, fileName)
	}

	return migrations, nil
}

// Get files list to rollback.
func (db *Postgres) getFilesToRollback() ([]string, error) {
	latestBatch, err := db.getLatestBatch()
	if err != nil {
		return nil, err
	}

	sql := "SELECT migration FROM migrations WHERE batch = @batch ORDER BY id DESC;"

	rows, err := db.Connection.Query(db.Context, sql, pgx.NamedArgs{"batch": latestBatch})
	if err != nil {
		return nil, err
	}

	migrationNames, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	var migrations []string

	for _, migrationName := range migrationNames {
		migrations = append(migrations, helpers.ConcatStrings(migrationName, fileNameSuffixDown))
	}

	return migrations, nil
}

// Insert successful migration into migrations table.
func (db *Postgres) addMigration(tx pgx.Tx, migrationName string, batch int) error {
	sql := "INSERT INTO migrations (migration, batch) VALUES (@migration, @batch);"

	_, err := tx.Exec(db.Context, sql, pgx.NamedArgs{
		"migration": migrationName,
		"batch":     batch,
	})

	return err
}

// Delete rolled back migration from migrations table.
func (db *Postgres) deleteMigration(tx pgx.Tx, migrationName string) error {
	sql := "DELETE FROM migrations WHERE migration = @migration;"

	_, err := tx.Exec(db.Context, sql, pgx.NamedArgs{"migration": migrationName})

	return err
}

// Check if migration has been applied.
func (db *Postgres) checkIfMigrated(migrationName string) (bool, error) {
	var isMigrated bool

	sql := "SELECT EXISTS(SELECT 1 FROM migrations WHERE migration = @migration);"
	err := db.Connection.QueryRow(db.Context, sql, pgx.NamedArgs{"migration": migrationName}).Scan(&isMigrated)

	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("unable to check if migrated: %w", err)
	}

	return isMigrated, nil
}

// Get latest migration batch number.
func (db *Postgres) getLatestBatch() (int, error) {
	var latestBatch int

	sql := "SELECT batch FROM migrations ORDER BY id DESC LIMIT 1;"
	err := db.Connection.QueryRow(db.Context, sql).Scan(&latestBatch)

	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("unable to fetch latest migration batch: %w", err)
	}

	return latestBatch, nil
}
