package app

import (
	"context"
	"searchbot/internal/app/conversation"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullLogger struct{}

func (nullLogger) Println(v ...any)               {}
func (nullLogger) Printf(format string, v ...any) {}

type recordingHandler struct {
	mu      sync.Mutex
	handled map[int][]string
	release chan struct{}
	done    chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		handled: make(map[int][]string),
		done:    make(chan string, 64),
	}
}

func (h *recordingHandler) Handle(ctx context.Context, session *conversation.Session, input conversation.Input) {
	if h.release != nil && input.ChatId == 1 {
		<-h.release
	}

	h.mu.Lock()
	h.handled[input.ChatId] = append(h.handled[input.ChatId], input.Text)
	h.mu.Unlock()

	h.done <- input.Text
}

func (h *recordingHandler) texts(chatId int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.handled[chatId]...)
}

func waitFor(t *testing.T, done <-chan string, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out after %d of %d inputs", i, count)
		}
	}
}

func TestDispatchKeepsChatOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newRecordingHandler()
	chats := newDispatcher(ctx, handler, conversation.NewStore(), time.Minute, nullLogger{})

	for _, text := range []string{"/start", "search", "lamp", "next_page"} {
		require.True(t, chats.Dispatch(conversation.Input{ChatId: 42, UserId: 5, Text: text}))
	}

	waitFor(t, handler.done, 4)

	assert.Equal(t, []string{"/start", "search", "lamp", "next_page"}, handler.texts(42))
	assert.Equal(t, 1, chats.Workers())

	cancel()
	chats.Wait()
}

func TestSlowChatDoesNotBlockOthers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newRecordingHandler()
	handler.release = make(chan struct{})
	chats := newDispatcher(ctx, handler, conversation.NewStore(), time.Minute, nullLogger{})

	chats.Dispatch(conversation.Input{ChatId: 1, Text: "slow search"})
	chats.Dispatch(conversation.Input{ChatId: 2, Text: "/start"})

	waitFor(t, handler.done, 1)

	assert.Equal(t, []string{"/start"}, handler.texts(2))
	assert.Empty(t, handler.texts(1))

	close(handler.release)
	waitFor(t, handler.done, 1)

	assert.Equal(t, []string{"slow search"}, handler.texts(1))

	cancel()
	chats.Wait()
}

func TestFullInboxDropsInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newRecordingHandler()
	handler.release = make(chan struct{})
	chats := newDispatcher(ctx, handler, conversation.NewStore(), time.Minute, nullLogger{})

	accepted := 0
	for i := 0; i < inboxSize+5; i++ {
		if chats.Dispatch(conversation.Input{ChatId: 1, Text: "spam"}) {
			accepted++
		}
	}

	// one input may already be taken by the blocked worker
	assert.GreaterOrEqual(t, accepted, inboxSize)
	assert.LessOrEqual(t, accepted, inboxSize+1)

	close(handler.release)
	waitFor(t, handler.done, accepted)

	cancel()
	chats.Wait()
}

func TestIdleWorkerIsRetired(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := newRecordingHandler()
	chats := newDispatcher(ctx, handler, conversation.NewStore(), 20*time.Millisecond, nullLogger{})

	chats.Dispatch(conversation.Input{ChatId: 42, Text: "/start"})
	waitFor(t, handler.done, 1)

	assert.Eventually(t, func() bool {
		return chats.Workers() == 0
	}, 2*time.Second, 10*time.Millisecond)

	chats.Dispatch(conversation.Input{ChatId: 42, Text: "/help"})
	waitFor(t, handler.done, 1)

	assert.Equal(t, []string{"/start", "/help"}, handler.texts(42))

	cancel()
	chats.Wait()
}
