package app

import (
	"context"
	"fmt"
	"path/filepath"
	"searchbot/internal/app/config"
	"searchbot/internal/app/conversation"
	"searchbot/internal/app/database"
	"searchbot/internal/app/helpers"
	"searchbot/internal/app/journal"
	"searchbot/internal/app/logger"
	"searchbot/internal/app/marketplace"
	"searchbot/internal/app/scheduler"
	"searchbot/internal/app/telegram"
	"time"
)

const gcIntervalInMinutes = 10

type TelegramBotApp struct {
	config        *config.Config
	bot           *telegram.Bot
	db            *database.Postgres
	journal       journal.Journal
	fetcher       *marketplace.Fetcher
	watcher       *marketplace.Watcher
	conversations *conversation.Store
	logger        logger.LoggerInterface
}

func NewTelegramBotApp(ctx context.Context, cfg *config.Config, appLogger logger.LoggerInterface) (*TelegramBotApp, error) {
	bot, err := telegram.NewBot(cfg.TelegramBotToken, appLogger)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to Telegram: %w", err)
	}

	app := &TelegramBotApp{
		config:        cfg,
		bot:           bot,
		journal:       journal.NoopJournal{},
		conversations: conversation.NewStore(),
		logger:        appLogger,
	}

	if cfg.Database.Enabled() {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}

		app.db = db
		app.journal = journal.NewPostgresRepository(db)
	} else {
		appLogger.Println(logger.PrefixWarning, "DB_HOST is not set, search journal is disabled")
	}

	renderer := marketplace.NewBrowserRenderer(marketplace.BrowserRendererOptions{
		Headless:    cfg.Fetch.Headless,
		SettleDelay: cfg.Fetch.SettleDelay,
	}, appLogger)

	app.fetcher = marketplace.NewFetcher(
		renderer,
		marketplace.NewExporter(helpers.ResolvePath(cfg.ResultsDir)),
		marketplace.NewSnapshotWriter(helpers.ResolvePath(cfg.DebugDir)),
		marketplace.FetcherOptions{
			BaseUrl:        cfg.Fetch.BaseUrl,
			MaxRetries:     cfg.Fetch.MaxRetries,
			RetryDelay:     cfg.Fetch.RetryDelay,
			AttemptTimeout: cfg.Fetch.AttemptTimeout,
		},
		appLogger,
	)

	app.watcher = marketplace.NewWatcher(app.fetcher, app.journal, appLogger)

	return app, nil
}

// Run the bot until ctx is done.
func (app *TelegramBotApp) Run(ctx context.Context) {
	if app.db != nil {
		defer app.db.CloseConnection()
	}

	messenger := newTelegramMessenger(app.bot)

	results := make(chan marketplace.WatcherResult)
	notificationsDone := app.sendNotifications(messenger, results)

	searchScheduler := scheduler.NewScheduler(func(ctx context.Context, job scheduler.Job) error {
		return app.watcher.Run(ctx, marketplace.WatchQuery{
			ChatId:     job.ChatId,
			SearchTerm: job.SearchTerm,
			MaxPrice:   job.MaxPrice,
		}, results)
	}, scheduler.Options{
		InitialDelay: app.config.Schedule.InitialDelay,
		Location:     app.config.TimeLocation,
	}, app.logger)

	searchScheduler.Start()

	handler := conversation.NewHandler(messenger, app.fetcher, searchScheduler, app.journal, app.logger, conversation.HandlerOptions{
		ResultsPerPage: app.config.ResultsPerPage,
	})

	chats := newDispatcher(ctx, handler, app.conversations, app.config.ConversationIdleTTL, app.logger)

	app.collectGarbage(ctx)
	app.registerCommands()

	app.logger.Println(helpers.ConcatStrings("I'm the @", app.bot.WhoAmI.UserName, " now"))

	defaultOffsetId := 0

	app.bot.ListenForUpdates(ctx, func(update telegram.Update) {
		input, ok := inputFromUpdate(update)
		if !ok {
			return
		}

		if input.CallbackQueryId != "" {
			if err := app.bot.AnswerCallbackQuery(input.CallbackQueryId); err != nil {
				app.logger.Println(logger.PrefixWarning, "Unable to answer callback query:", err)
			}
		}

		chats.Dispatch(input)
	}, defaultOffsetId)

	app.logger.Println("Shutting down...")

	chats.Wait()
	searchScheduler.Stop()
	close(results)
	<-notificationsDone

	app.logger.Println("Bye")
}

// Send scheduled search matches to their chats.
func (app *TelegramBotApp) sendNotifications(messenger *telegramMessenger, results <-chan marketplace.WatcherResult) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			chatId := result.Query.ChatId

			_, err := messenger.Send(chatId, conversation.Reply{
				Text: conversation.NotificationText(result),
			})
			if err != nil {
				app.logger.Println(logger.PrefixError, "Unable to send notification to chat", chatId, "-", err)
				continue
			}

			if result.ExportPath == "" {
				continue
			}

			if err := messenger.SendDocument(chatId, result.ExportPath); err != nil {
				app.logger.Println(logger.PrefixWarning, "Unable to send", filepath.Base(result.ExportPath), "to chat", chatId, "-", err)
			}
		}
	}()

	return done
}

// Collect garbage (drop search results of idle conversations).
func (app *TelegramBotApp) collectGarbage(ctx context.Context) {
	gcTicker := time.NewTicker(gcIntervalInMinutes * time.Minute)

	go func() {
		defer gcTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-gcTicker.C:
				if collected := app.conversations.CollectIdle(app.config.ConversationIdleTTL, now); collected > 0 {
					app.logger.Println("Dropped search results of", collected, "idle conversations out of", app.conversations.Count())
				}
			}
		}
	}()
}

// Publish commands to the bot menu.
func (app *TelegramBotApp) registerCommands() {
	var commands []telegram.BotCommand

	for _, command := range conversation.Commands() {
		commands = append(commands, telegram.NewBotCommand(command.Command, command.Description))
	}

	if err := app.bot.SetMyCommands(commands); err != nil {
		app.logger.Println(logger.PrefixWarning, "Unable to set bot commands:", err)
	}
}
