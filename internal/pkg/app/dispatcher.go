package app

import (
	"context"
	"searchbot/internal/app/conversation"
	"searchbot/internal/app/logger"
	"sync"
	"time"
)

const inboxSize = 16

type inputHandler interface {
	Handle(ctx context.Context, session *conversation.Session, input conversation.Input)
}

// Dispatcher runs one worker per chat, so input of a chat is handled in order
// while different chats don't wait for each other.
type dispatcher struct {
	ctx         context.Context
	handler     inputHandler
	store       *conversation.Store
	logger      logger.LoggerInterface
	idleTimeout time.Duration
	locker      sync.Mutex
	inboxes     map[int]chan conversation.Input
	workers     sync.WaitGroup
}

func newDispatcher(ctx context.Context, handler inputHandler, store *conversation.Store, idleTimeout time.Duration, logger logger.LoggerInterface) *dispatcher {
	return &dispatcher{
		ctx:         ctx,
		handler:     handler,
		store:       store,
		logger:      logger,
		idleTimeout: idleTimeout,
		inboxes:     make(map[int]chan conversation.Input),
	}
}

// Queue input to the chat worker, starting one if needed. Input is dropped when the inbox is full.
func (d *dispatcher) Dispatch(input conversation.Input) bool {
	d.locker.Lock()
	defer d.locker.Unlock()

	inbox, exists := d.inboxes[input.ChatId]
	if !exists {
		inbox = make(chan conversation.Input, inboxSize)
		d.inboxes[input.ChatId] = inbox

		d.workers.Add(1)
		go d.work(input.ChatId, inbox)
	}

	select {
	case inbox <- input:
		return true
	default:
		d.logger.Println(logger.PrefixWarning, "Chat", input.ChatId, "inbox is full, input dropped")
		return false
	}
}

// Wait for running workers to finish after ctx is done.
func (d *dispatcher) Wait() {
	d.workers.Wait()
}

func (d *dispatcher) Workers() int {
	d.locker.Lock()
	defer d.locker.Unlock()

	return len(d.inboxes)
}

func (d *dispatcher) work(chatId int, inbox chan conversation.Input) {
	defer d.workers.Done()

	idleTimer := time.NewTimer(d.idleTimeout)
	defer idleTimer.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case input := <-inbox:
			session := d.store.Get(input.ChatId, input.UserId)
			d.handler.Handle(d.ctx, session, input)

			if !idleTimer.Stop() {
				<-idleTimer.C
			}
			idleTimer.Reset(d.idleTimeout)
		case <-idleTimer.C:
			if d.retire(chatId, inbox) {
				return
			}

			idleTimer.Reset(d.idleTimeout)
		}
	}
}

// Inputs are only queued under the lock, so an empty inbox can't get new input once removed.
func (d *dispatcher) retire(chatId int, inbox chan conversation.Input) bool {
	d.locker.Lock()
	defer d.locker.Unlock()

	if len(inbox) > 0 {
		return false
	}

	delete(d.inboxes, chatId)

	return true
}
