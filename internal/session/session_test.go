package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

func TestGetDefaultsToIdle(t *testing.T) {
	s := NewStore()
	sess := s.Get(1)
	assert.Equal(t, Idle, sess.State)
	assert.Zero(t, sess.EntryID)
}

func TestSetAndClear(t *testing.T) {
	s := NewStore()
	s.Set(1, Session{State: AwaitingVolume, Category: domain.Formula, Elapsed: 42})

	sess := s.Get(1)
	assert.Equal(t, AwaitingVolume, sess.State)
	assert.Equal(t, domain.Formula, sess.Category)
	assert.Equal(t, 42, sess.Elapsed)

	// Other users are untouched.
	assert.Equal(t, Idle, s.Get(2).State)

	s.Clear(1)
	assert.Equal(t, Idle, s.Get(1).State)
}

func TestSetStateKeepsBag(t *testing.T) {
	s := NewStore()
	s.Set(1, Session{State: AwaitingNoteChoice, EntryID: 7})
	s.SetState(1, AwaitingNoteText)

	sess := s.Get(1)
	assert.Equal(t, AwaitingNoteText, sess.State)
	assert.Equal(t, int64(7), sess.EntryID)
}
