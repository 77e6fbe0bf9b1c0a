package conversation_test

import (
	"searchbot/internal/app/conversation"
	"searchbot/internal/app/core"
	"searchbot/internal/app/marketplace"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreGet(t *testing.T) {
	store := conversation.NewStore()

	first := store.Get(1, 10)
	second := store.Get(1, 10)
	other := store.Get(2, 10)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, store.Count())
	assert.EqualValues(t, "Idle", first.State())
}

func TestStoreCollectIdle(t *testing.T) {
	store := conversation.NewStore()
	now := time.Now()

	idle := store.Get(1, 1)
	idle.Search = core.NewSearchSession(listings("S$10"))
	idle.Alerts.Add(marketplace.TrackedAlert{Name: "bike", MaxPrice: 200})
	idle.LastActivity = now.Add(-time.Hour)

	active := store.Get(2, 2)
	active.Search = core.NewSearchSession(listings("S$10"))
	active.LastActivity = now

	busy := store.Get(3, 3)
	busy.Search = core.NewSearchSession(listings("S$10"))
	busy.LastActivity = now.Add(-time.Hour)
	busy.Lock()
	defer busy.Unlock()

	collected := store.CollectIdle(10*time.Minute, now)

	assert.Equal(t, 1, collected)
	assert.Nil(t, idle.Search)
	assert.Len(t, idle.Alerts, 1)
	assert.NotNil(t, active.Search)
	assert.NotNil(t, busy.Search)
}
