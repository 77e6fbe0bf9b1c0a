package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"searchbot/internal/app/config"
	"searchbot/internal/app/helpers"
	"searchbot/internal/app/logger"
	"searchbot/internal/pkg/app"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if err := loadEnv(); err != nil {
		log.Fatalln("Unable to load .env file:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if checkIsCliMode() {
		runConsoleApp(ctx)
		return
	}

	runBotApp(ctx)
}

// Load .env file from the project root, environment variables alone are enough too.
func loadEnv() error {
	filePath := filepath.Join(helpers.GetRootDirOrWorkDir(), ".env")

	err := godotenv.Load(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("No .env file found, using environment variables only")
		return nil
	}

	return err
}

func checkIsCliMode() bool {
	args := os.Args[1:]

	return len(args) > 1 && args[0] == app.ConsoleAppKeyword
}

func runConsoleApp(ctx context.Context) {
	app, err := app.NewConsoleApp()
	if err != nil {
		log.Fatal(err)
	}

	err = app.Run(ctx, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func runBotApp(ctx context.Context) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}

	logger := logger.NewFileLogger(cfg.LogFile, cfg.LogSilent, cfg.TimeLocation)

	app, err := app.NewTelegramBotApp(ctx, cfg, logger)
	if err != nil {
		logger.Println(err)
		log.Fatalln(err)
	}

	app.Run(ctx)
}
