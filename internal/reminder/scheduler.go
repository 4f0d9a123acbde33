// Package reminder estimates activity intervals and schedules one-shot
// nudges. Pending reminders live only in memory and die with the process.
package reminder

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// MinInterval is the floor below which no reminder is scheduled; it keeps
// rapid-fire logging from turning into a notification storm.
const MinInterval = 5 * time.Minute

// Sender is the minimal interface the scheduler needs to send a text message.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler arms at most one pending reminder per user. Scheduling again
// replaces the previous reminder regardless of category: last write wins.
type Scheduler struct {
	log    *zap.Logger
	sender Sender

	mu      sync.Mutex
	pending map[int64]*handle

	minInterval time.Duration
}

type handle struct {
	timer *time.Timer
}

// NewScheduler creates an empty reminder scheduler.
func NewScheduler(log *zap.Logger, sender Sender) *Scheduler {
	return &Scheduler{
		log:         log,
		sender:      sender,
		pending:     make(map[int64]*handle),
		minInterval: MinInterval,
	}
}

// Schedule arms a reminder that fires after intervalSec seconds. Any pending
// reminder for the user is cancelled first. Intervals at or below the floor
// are ignored.
func (s *Scheduler) Schedule(userID int64, c domain.Category, babyName string, intervalSec int) {
	interval := time.Duration(intervalSec) * time.Second
	if interval <= s.minInterval {
		return
	}
	s.arm(userID, c, babyName, interval, intervalSec)
}

// arm replaces the user's pending reminder with one firing after interval.
func (s *Scheduler) arm(userID int64, c domain.Category, babyName string, interval time.Duration, intervalSec int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[userID]; ok {
		prev.timer.Stop()
	}

	h := &handle{}
	h.timer = time.AfterFunc(interval, func() {
		s.fire(userID, h, c, babyName, intervalSec)
	})
	s.pending[userID] = h
}

// fire delivers the reminder unless it was superseded or cancelled after the
// timer went off.
func (s *Scheduler) fire(userID int64, h *handle, c domain.Category, babyName string, intervalSec int) {
	s.mu.Lock()
	if s.pending[userID] != h {
		s.mu.Unlock()
		return
	}
	delete(s.pending, userID)
	s.mu.Unlock()

	if err := s.sender.SendMessage(userID, c.ReminderText(babyName, intervalSec)); err != nil {
		// Fire-and-forget: delivery failures are logged and dropped.
		s.log.Error("reminder send failed",
			zap.Error(err),
			zap.Int64("userID", userID),
			zap.String("category", string(c)),
		)
	}
}

// Cancel drops the user's pending reminder, if any. Safe to call redundantly.
func (s *Scheduler) Cancel(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.pending[userID]; ok {
		h.timer.Stop()
		delete(s.pending, userID)
	}
}

// Shutdown cancels every pending reminder.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, h := range s.pending {
		h.timer.Stop()
		delete(s.pending, id)
	}
}
