// Package session tracks per-user conversational state between messages.
// State is in-memory only; a restart simply drops users back to the menu.
package session

import (
	"sync"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// State is a position in the conversation flow.
type State int

const (
	Idle State = iota
	AwaitingBabyName
	AwaitingTimezoneChoice
	AwaitingCustomTimezone
	AwaitingVolume
	AwaitingNoteChoice
	AwaitingNoteText
	AwaitingReportsMenu
	ChoosingCalendarMonth
	ChoosingCategoryReport
)

// Session is one user's position in the flow plus the in-flight values the
// next step needs.
type Session struct {
	State State

	// Set while finishing a formula feeding, before the volume arrives.
	Category domain.Category
	Elapsed  int    // seconds
	Start    string // HH:MM
	Date     string // YYYY-MM-DD

	// Set once an entry is written, for the note follow-up.
	EntryID int64
}

// Store keeps sessions keyed by user id.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns the user's session; the zero value (Idle) when none exists.
func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Set replaces the user's session.
func (s *Store) Set(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// SetState replaces only the state, keeping the bagged values.
func (s *Store) SetState(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	sess.State = st
	s.sessions[userID] = sess
}

// Clear drops the user's session, returning them to Idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
