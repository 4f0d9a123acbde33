// Package tracker keeps the in-memory registry of in-progress activities.
// Timers are deliberately not persisted: a restart loses in-flight timers.
package tracker

import (
	"errors"
	"sync"
	"time"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

var (
	// ErrAlreadyRunning is returned when a user starts an activity while
	// another one is being timed.
	ErrAlreadyRunning = errors.New("activity already running")
	// ErrNoActiveTimer is returned when a user stops with nothing running.
	ErrNoActiveTimer = errors.New("no active timer")
)

// Timer is one in-progress activity.
type Timer struct {
	StartedAt time.Time
	Category  domain.Category
	Date      string // YYYY-MM-DD, process-local date at start
}

// Registry holds at most one active timer per user.
type Registry struct {
	mu     sync.Mutex
	timers map[int64]Timer
	now    func() time.Time
}

// NewRegistry creates an empty timer registry.
func NewRegistry() *Registry {
	return &Registry{
		timers: make(map[int64]Timer),
		now:    time.Now,
	}
}

// Start begins timing an activity for the user. Any category counts as
// running: a second Start before Stop fails with ErrAlreadyRunning.
func (r *Registry) Start(userID int64, c domain.Category) (Timer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timers[userID]; ok {
		return Timer{}, ErrAlreadyRunning
	}
	now := r.now()
	t := Timer{
		StartedAt: now,
		Category:  c,
		Date:      now.Format("2006-01-02"),
	}
	r.timers[userID] = t
	return t, nil
}

// Stop removes the user's timer and returns it with the elapsed whole
// seconds. Fails with ErrNoActiveTimer when nothing is running.
func (r *Registry) Stop(userID int64) (Timer, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[userID]
	if !ok {
		return Timer{}, 0, ErrNoActiveTimer
	}
	delete(r.timers, userID)

	elapsed := int(r.now().Sub(t.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return t, elapsed, nil
}

// Active returns the user's running timer, if any.
func (r *Registry) Active(userID int64) (Timer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.timers[userID]
	return t, ok
}
