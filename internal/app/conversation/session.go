package conversation

import (
	"crypto/md5"
	"encoding/hex"
	"searchbot/internal/app/core"
	"searchbot/internal/app/helpers"
	"searchbot/internal/app/marketplace"
	"searchbot/internal/app/statemachine"
	"strconv"
	"sync"
	"time"
)

// Session is the whole transient state of a single chat user.
type Session struct {
	mu sync.Mutex

	ChatId       int
	UserId       int
	StateMachine statemachine.StateMachine

	Search         *core.SearchSession[marketplace.Listing]
	LastSearchTerm string

	Alerts marketplace.AlertList
	// most recently saved or edited alert, used by scheduled searches
	ScheduleAlert *marketplace.TrackedAlert

	AwaitingAlertName bool
	PendingAlertName  string
	EditingIndex      int

	LastActivity time.Time
}

func NewSession(chatId int, userId int) *Session {
	return &Session{
		ChatId:       chatId,
		UserId:       userId,
		StateMachine: NewFsm(),
		EditingIndex: -1,
		LastActivity: time.Now(),
	}
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Get current conversation state.
func (s *Session) State() statemachine.State {
	return s.StateMachine.GetCurrentState()
}

// Drop multi-step input in progress.
func (s *Session) ResetInput() {
	s.AwaitingAlertName = false
	s.PendingAlertName = ""
	s.EditingIndex = -1
}

// Drop search results and pagination.
func (s *Session) ResetSearch() {
	s.Search = nil
}

// Reset conversation to not started state. Alerts are kept.
func (s *Session) Reset() {
	s.ResetInput()
	s.ResetSearch()

	if !s.StateMachine.IsInitialized() {
		s.StateMachine = NewFsm()
	}

	s.StateMachine.Reset()
}

func (s *Session) rememberScheduleAlert(alert marketplace.TrackedAlert) {
	s.ScheduleAlert = &alert
}

func (s *Session) forgetScheduleAlert(alert marketplace.TrackedAlert) {
	if s.ScheduleAlert != nil && *s.ScheduleAlert == alert {
		s.ScheduleAlert = nil
	}
}

// Store keeps sessions of all chat users.
type Store struct {
	locker   sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Get session of the chat user, creating a new one on first contact.
func (s *Store) Get(chatId int, userId int) *Session {
	s.locker.Lock()
	defer s.locker.Unlock()

	hash := calculateSessionHash(chatId, userId)

	session, exists := s.sessions[hash]
	if !exists {
		session = NewSession(chatId, userId)
		s.sessions[hash] = session
	}

	return session
}

func (s *Store) Count() int {
	s.locker.Lock()
	defer s.locker.Unlock()

	return len(s.sessions)
}

// Drop search results of sessions idle for longer than ttl.
// Busy sessions are skipped. Returns number of collected sessions.
func (s *Store) CollectIdle(ttl time.Duration, now time.Time) int {
	s.locker.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.locker.Unlock()

	collected := 0

	for _, session := range sessions {
		if !session.mu.TryLock() {
			continue
		}

		if session.Search != nil && now.Sub(session.LastActivity) > ttl {
			session.ResetSearch()
			collected++
		}

		session.mu.Unlock()
	}

	return collected
}

// Calculate session hash based on chat and user ids.
func calculateSessionHash(chatId int, userId int) string {
	data := helpers.ConcatStrings(strconv.Itoa(chatId), "_", strconv.Itoa(userId))
	hash := md5.Sum([]byte(data))

	return hex.EncodeToString(hash[:])
}

// Get search term and price ceiling for a scheduled search:
// the latest saved alert, otherwise the latest search term without ceiling.
func (s *Session) scheduleQuery() (string, *float64) {
	if s.ScheduleAlert != nil {
		maxPrice := s.ScheduleAlert.MaxPrice
		return s.ScheduleAlert.Name, &maxPrice
	}

	return s.LastSearchTerm, nil
}
