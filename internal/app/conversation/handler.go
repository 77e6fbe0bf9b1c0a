// Package conversation maps user input to replies and state transitions of a single chat.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"searchbot/internal/app/core"
	"searchbot/internal/app/journal"
	"searchbot/internal/app/logger"
	"searchbot/internal/app/marketplace"
	"searchbot/internal/app/scheduler"
	"searchbot/internal/app/statemachine"
	"strings"
	"time"
)

var ErrHandlerPanic = errors.New("handler panic")

type Fetcher interface {
	Fetch(ctx context.Context, searchTerm string) (marketplace.SearchResult, error)
}

type Scheduler interface {
	Schedule(job scheduler.Job) error
	Cancel(chatId int) bool
}

type HandlerOptions struct {
	ResultsPerPage int
}

type Handler struct {
	messenger Messenger
	fetcher   Fetcher
	scheduler Scheduler
	journal   journal.Journal
	logger    logger.LoggerInterface
	perPage   int
}

func NewHandler(messenger Messenger, fetcher Fetcher, scheduler Scheduler, journal journal.Journal, logger logger.LoggerInterface, options HandlerOptions) *Handler {
	if options.ResultsPerPage < 1 {
		options.ResultsPerPage = 5
	}

	return &Handler{
		messenger: messenger,
		fetcher:   fetcher,
		scheduler: scheduler,
		journal:   journal,
		logger:    logger,
		perPage:   options.ResultsPerPage,
	}
}

// Handle user input within the session. Holds the session lock until done.
func (h *Handler) Handle(ctx context.Context, session *Session, input Input) {
	session.Lock()
	defer session.Unlock()

	session.LastActivity = time.Now()

	if !session.StateMachine.IsInitialized() {
		session.StateMachine = NewFsm()
	}

	state := session.State()

	event, err := h.dispatch(ctx, session, input)
	if err == nil {
		_, err = session.StateMachine.TriggerEvent(event)
	}

	if err != nil {
		h.recoverFromError(session, input, state, err)
	}
}

func (h *Handler) dispatch(ctx context.Context, session *Session, input Input) (event statemachine.Event, err error) {
	defer func() {
		if r := recover(); r != nil {
			event, err = EventStay, fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	if command, ok := input.Command(); ok {
		return h.handleCommand(session, input, command)
	}

	state := session.State()

	if state == statemachine.StateIdle {
		return h.unknownCommand(session)
	}

	if input.IsButton() != session.StateMachine.IsInOneOfStates(buttonStates) {
		h.logger.Println(logger.PrefixWarning, "Chat", session.ChatId, "ignored unexpected input in state", state)
		return EventStay, nil
	}

	switch state {
	case StateMainMenu:
		return h.handleMainMenu(session, input)
	case StateSearch:
		return h.handleSearch(ctx, session, input)
	case StateViewingResults:
		return h.handleViewingResults(session, input)
	case StateFiltering:
		return h.handleFiltering(session, input)
	case StateSetPriceAlert:
		return h.handleSetPriceAlert(session, input)
	case StateSetFrequency:
		return h.handleSetFrequency(session, input)
	case StateViewTrackedItems:
		return h.handleViewTrackedItems(session, input)
	case StateEditTrackedItem:
		return h.handleEditTrackedItem(session, input)
	}

	return EventStay, fmt.Errorf("unsupported state %q", state)
}

// States waiting for a button press, all other states wait for text.
var buttonStates = []statemachine.State{
	StateMainMenu,
	StateViewingResults,
	StateSetFrequency,
	StateViewTrackedItems,
}

// Log error, apologise and go back to main menu. Conversation is ended if even that fails.
func (h *Handler) recoverFromError(session *Session, input Input, state statemachine.State, err error) {
	h.logger.Println(logger.PrefixError, "Chat", session.ChatId, "failed in state", state, "-", err)

	session.ResetInput()

	_, sendErr := h.messenger.Send(session.ChatId, textReply(textGenericError))
	if sendErr == nil {
		_, sendErr = h.messenger.Send(session.ChatId, mainMenuReply())
	}

	if sendErr == nil {
		_, sendErr = session.StateMachine.TriggerEvent(EventShowMenu)
	}

	if sendErr != nil {
		h.logger.Println(logger.PrefixError, "Chat", session.ChatId, "conversation ended -", sendErr)
		session.Reset()
	}
}

func (h *Handler) handleCommand(session *Session, input Input, command string) (statemachine.Event, error) {
	h.logger.Println("Chat", session.ChatId, "command", command)

	switch command {
	case CommandStart, CommandRestart:
		return h.start(session)
	case CommandHelp:
		session.ResetInput()
		return h.reply(input, helpReply(), EventShowMenu)
	case CommandStop:
		return h.stop(session)
	}

	return h.unknownCommand(session)
}

func (h *Handler) unknownCommand(session *Session) (statemachine.Event, error) {
	_, err := h.messenger.Send(session.ChatId, textReply(textUnknownCommand))

	return EventStay, err
}

// Start conversation from scratch: search results and pending input are dropped,
// alerts and the scheduled job are kept.
func (h *Handler) start(session *Session) (statemachine.Event, error) {
	session.Reset()

	messageId, err := h.messenger.Send(session.ChatId, textReply(textWelcome))
	if err != nil {
		return EventStay, fmt.Errorf("send welcome: %w", err)
	}

	if err := h.messenger.Pin(session.ChatId, messageId); err != nil {
		h.logger.Println(logger.PrefixWarning, "Unable to pin welcome message in chat", session.ChatId, "-", err)
	}

	if _, err := h.messenger.Send(session.ChatId, mainMenuReply()); err != nil {
		return EventStay, err
	}

	return EventStart, nil
}

func (h *Handler) stop(session *Session) (statemachine.Event, error) {
	session.ResetInput()

	text := textNoSchedule
	if h.scheduler.Cancel(session.ChatId) {
		text = textScheduleStopped
	}

	if _, err := h.messenger.Send(session.ChatId, textReply(text)); err != nil {
		return EventStay, err
	}

	if _, err := h.messenger.Send(session.ChatId, backToMainReply(textAnythingElse)); err != nil {
		return EventStay, err
	}

	return EventShowMenu, nil
}

func (h *Handler) handleMainMenu(session *Session, input Input) (statemachine.Event, error) {
	switch input.Text {
	case CallbackSearch:
		return h.reply(input, textReply(textAskSearchTerm), EventAskSearchTerm)
	case CallbackSetAlert:
		session.ResetInput()

		if session.Alerts.IsFull() {
			return h.reply(input, backToMainReply(tooManyAlertsText()), EventShowMenu)
		}

		session.AwaitingAlertName = true

		return h.reply(input, textReply(textAskAlertName), EventAskAlert)
	case CallbackSetFrequency:
		return h.reply(input, frequencyReply(), EventAskFrequency)
	case CallbackViewTracked:
		return h.showTrackedItems(session, input)
	case CallbackHelp:
		return h.reply(input, helpReply(), EventShowMenu)
	case CallbackBackToMain:
		return h.showMainMenu(session, input)
	}

	h.logger.Println(logger.PrefixWarning, "Chat", session.ChatId, "unexpected callback data:", input.Text)

	return h.showMainMenu(session, input)
}

func (h *Handler) showMainMenu(session *Session, input Input) (statemachine.Event, error) {
	session.ResetInput()

	return h.reply(input, mainMenuReply(), EventShowMenu)
}

func (h *Handler) handleSearch(ctx context.Context, session *Session, input Input) (statemachine.Event, error) {
	searchTerm := strings.TrimSpace(input.Text)
	if searchTerm == "" {
		return h.reply(input, textReply(textAskSearchTerm), EventStay)
	}

	h.logger.Println("Chat", session.ChatId, "searching for:", searchTerm)

	if err := h.messenger.Reply(input, textReply(searchingText(searchTerm))); err != nil {
		return EventStay, err
	}

	if err := h.messenger.SendTyping(session.ChatId); err != nil {
		h.logger.Println(logger.PrefixWarning, "Unable to send typing action to chat", session.ChatId, "-", err)
	}

	result, err := h.fetcher.Fetch(ctx, searchTerm)

	h.record(ctx, journal.NewEntry(session.ChatId, searchTerm, journal.SourceSearch, len(result.Listings), len(result.Listings), result.ExportPath, err))

	session.LastSearchTerm = searchTerm
	session.ResetSearch()

	if err != nil {
		h.logger.Println(logger.PrefixWarning, "Chat", session.ChatId, "search failed:", err)
	}

	if err != nil || result.IsEmpty() {
		if _, err := h.messenger.Send(session.ChatId, textReply(textNoResults)); err != nil {
			return EventStay, err
		}

		return h.showMainMenu(session, input)
	}

	session.Search = core.NewSearchSession(result.Listings)

	if err := h.messenger.Reply(input, resultsPageReply(session.Search, h.perPage)); err != nil {
		return EventStay, err
	}

	if result.ExportPath != "" {
		if err := h.messenger.SendDocument(session.ChatId, result.ExportPath); err != nil {
			h.logger.Println(logger.PrefixWarning, "Unable to send export file to chat", session.ChatId, "-", err)
		}
	}

	return EventShowResults, nil
}

func (h *Handler) handleViewingResults(session *Session, input Input) (statemachine.Event, error) {
	if session.Search == nil {
		return h.resultsExpired(session, input)
	}

	switch input.Text {
	case CallbackPrevPage:
		session.Search.PrevPage(h.perPage)
	case CallbackNextPage:
		session.Search.NextPage(h.perPage)
	case CallbackNewSearch:
		session.ResetSearch()
		return h.reply(input, textReply(textAskNewSearchTerm), EventAskSearchTerm)
	case CallbackFilterItem:
		return h.reply(input, textReply(textAskFilter), EventAskFilter)
	case CallbackBackToMain:
		session.ResetSearch()
		return h.showMainMenu(session, input)
	}

	return h.reply(input, resultsPageReply(session.Search, h.perPage), EventShowResults)
}

func (h *Handler) handleFiltering(session *Session, input Input) (statemachine.Event, error) {
	if session.Search == nil {
		return h.resultsExpired(session, input)
	}

	position, err := ParseItemNumber(input.Text)
	if errors.Is(err, ErrInvalidItemNumber) {
		return h.reply(input, textReply(textInvalidItemNumber), EventStay)
	}

	filtered, err := session.Search.ToggleFilter(position)
	if errors.Is(err, core.ErrIndexOutOfRange) {
		return h.reply(input, textReply(filterOutOfRangeText(len(session.Search.Results))), EventStay)
	}

	if err != nil {
		return EventStay, err
	}

	if err := h.messenger.Reply(input, textReply(filterToggledText(position, filtered))); err != nil {
		return EventStay, err
	}

	return h.reply(input, resultsPageReply(session.Search, h.perPage), EventShowResults)
}

func (h *Handler) resultsExpired(session *Session, input Input) (statemachine.Event, error) {
	if _, err := h.messenger.Send(session.ChatId, textReply(textResultsExpired)); err != nil {
		return EventStay, err
	}

	return h.showMainMenu(session, input)
}

// Two steps: item name first, then maximum price.
func (h *Handler) handleSetPriceAlert(session *Session, input Input) (statemachine.Event, error) {
	text := strings.TrimSpace(input.Text)

	if session.AwaitingAlertName || session.PendingAlertName == "" {
		if text == "" {
			return h.reply(input, textReply(textAskAlertName), EventStay)
		}

		session.PendingAlertName = text
		session.AwaitingAlertName = false

		return h.reply(input, textReply(alertNameAcceptedText(text)), EventStay)
	}

	price, err := ParseAlertPrice(text)
	if errors.Is(err, ErrInvalidPrice) {
		return h.reply(input, textReply(textInvalidPrice), EventStay)
	}

	if session.Alerts.IsFull() {
		session.ResetInput()
		return h.reply(input, backToMainReply(tooManyAlertsText()), EventShowMenu)
	}

	alert := marketplace.TrackedAlert{
		Name:     session.PendingAlertName,
		MaxPrice: price,
	}

	session.Alerts.Add(alert)
	session.rememberScheduleAlert(alert)
	session.ResetInput()

	h.logger.Println("Chat", session.ChatId, "set price alert:", alert.Name, alert.MaxPrice)

	return h.reply(input, alertSavedReply(alert), EventShowMenu)
}

func (h *Handler) handleSetFrequency(session *Session, input Input) (statemachine.Event, error) {
	minutes, ok := parseCallbackNumber(input.Text, CallbackPrefixFrequency)
	if !ok || !isFrequencyPreset(minutes) {
		return h.handleMainMenu(session, input)
	}

	searchTerm, maxPrice := session.scheduleQuery()
	if searchTerm == "" {
		return h.reply(input, backToMainReply(textNothingToSchedule), EventShowMenu)
	}

	err := h.scheduler.Schedule(scheduler.Job{
		ChatId:     session.ChatId,
		Interval:   time.Duration(minutes) * time.Minute,
		SearchTerm: searchTerm,
		MaxPrice:   maxPrice,
	})
	if err != nil {
		return EventStay, fmt.Errorf("schedule search: %w", err)
	}

	return h.reply(input, scheduledReply(searchTerm, maxPrice, minutes), EventShowMenu)
}

func (h *Handler) showTrackedItems(session *Session, input Input) (statemachine.Event, error) {
	session.ResetInput()

	if len(session.Alerts) == 0 {
		return h.reply(input, backToMainReply(textNoTrackedItems), EventShowMenu)
	}

	return h.reply(input, trackedItemsReply(session.Alerts), EventShowTracked)
}

func (h *Handler) handleViewTrackedItems(session *Session, input Input) (statemachine.Event, error) {
	index, ok := parseCallbackNumber(input.Text, CallbackPrefixEdit)
	if !ok {
		return h.handleMainMenu(session, input)
	}

	alert, err := session.Alerts.Get(index)
	if errors.Is(err, marketplace.ErrAlertNotFound) {
		if _, err := h.messenger.Send(session.ChatId, textReply(textAlertNotFound)); err != nil {
			return EventStay, err
		}

		return h.showTrackedItems(session, input)
	}

	session.EditingIndex = index

	return h.reply(input, textReply(editAlertText(alert)), EventEditTracked)
}

func (h *Handler) handleEditTrackedItem(session *Session, input Input) (statemachine.Event, error) {
	index := session.EditingIndex

	alert, err := session.Alerts.Get(index)
	if errors.Is(err, marketplace.ErrAlertNotFound) {
		if _, err := h.messenger.Send(session.ChatId, textReply(textAlertNotFound)); err != nil {
			return EventStay, err
		}

		return h.showTrackedItems(session, input)
	}

	text := strings.TrimSpace(input.Text)

	if strings.EqualFold(text, "delete") {
		if err := session.Alerts.Delete(index); err != nil {
			return EventStay, err
		}

		session.forgetScheduleAlert(alert)

		if err := h.messenger.Reply(input, textReply(textAlertDeleted)); err != nil {
			return EventStay, err
		}

		return h.showTrackedItems(session, input)
	}

	name, price, err := ParseEditInput(text)
	if errors.Is(err, ErrInvalidEditInput) {
		return h.reply(input, textReply(textInvalidEditInput), EventStay)
	}

	updated := marketplace.TrackedAlert{
		Name:     name,
		MaxPrice: price,
	}

	if err := session.Alerts.Replace(index, updated); err != nil {
		return EventStay, err
	}

	session.rememberScheduleAlert(updated)

	if err := h.messenger.Reply(input, textReply(alertUpdatedText(updated))); err != nil {
		return EventStay, err
	}

	return h.showTrackedItems(session, input)
}

// Reply and resolve to event, unless the reply could not be delivered.
func (h *Handler) reply(input Input, reply Reply, event statemachine.Event) (statemachine.Event, error) {
	if err := h.messenger.Reply(input, reply); err != nil {
		return EventStay, err
	}

	return event, nil
}

func (h *Handler) record(ctx context.Context, entry journal.Entry) {
	if h.journal == nil {
		return
	}

	if err := h.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		h.logger.Println(logger.PrefixWarning, "Unable to record search journal:", err)
	}
}
