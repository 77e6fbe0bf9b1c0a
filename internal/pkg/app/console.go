package app

import (
	"context"
	"errors"
	"fmt"
	"searchbot/internal/app/config"
	"searchbot/internal/app/database"
	"searchbot/internal/app/helpers"
	"searchbot/internal/app/journal"
	"strconv"
	"strings"
)

const defaultJournalLimit = 20

const ConsoleAppKeyword = "console"

var ErrNotEnoughArguments = errors.New("not enough arguments")

type ConsoleApp struct {
	db *database.Postgres
}

func NewConsoleApp() (ConsoleApp, error) {
	return ConsoleApp{}, nil
}

// Run console command, args are the program arguments without the program name.
func (app ConsoleApp) Run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return ErrNotEnoughArguments
	}

	if args[0] != ConsoleAppKeyword {
		return fmt.Errorf("invalid keyword %q", args[0])
	}

	command := args[1]

	// creating a migration file doesn't need the database
	if command == "create:migration" {
		if len(args) < 3 || strings.TrimSpace(args[2]) == "" {
			return database.ErrEmptyMigrationName
		}

		files, err := database.CreateNewMigration(strings.TrimSpace(args[2]))
		if err != nil {
			return err
		}

		for _, file := range files {
			fmt.Println("Created", file)
		}

		return nil
	}

	fmt.Println("starting console...")

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	app.db, err = database.NewPostgres(ctx, cfg)
	if err != nil {
		return err
	}

	defer app.db.CloseConnection()

	switch command {
	case "migrate":
		return app.db.Migrate()
	case "migrate:rollback":
		return app.db.RollbackMigrations()
	case "journal:latest":
		return app.printJournal(ctx, args[2:])
	}

	return fmt.Errorf("unknown command %q", command)
}

// Print latest search journal entries of a chat: journal:latest <chat_id> [limit].
func (app ConsoleApp) printJournal(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return ErrNotEnoughArguments
	}

	chatId, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", args[0], err)
	}

	limit := defaultJournalLimit
	if len(args) > 1 {
		if limit, err = strconv.Atoi(args[1]); err != nil || limit < 1 {
			return fmt.Errorf("invalid limit %q", args[1])
		}
	}

	entries, err := journal.NewPostgresRepository(app.db).FindLatestForChat(ctx, chatId, limit)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		line := helpers.ConcatStrings(
			helpers.TimeToDatabase(entry.CreatedAt), " ",
			string(entry.Source), " \"", entry.SearchTerm, "\" ",
			string(entry.Status), " listings=", strconv.Itoa(entry.ListingsCount), " matches=", strconv.Itoa(entry.MatchesCount),
		)

		if entry.ExportPath != "" {
			line = helpers.ConcatStrings(line, " export=", entry.ExportPath)
		}

		if entry.Error != "" {
			line = helpers.ConcatStrings(line, " error=", entry.Error)
		}

		fmt.Println(line)
	}

	return nil
}
