package reminder

import (
	"context"
	"time"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// historyWindow is how many recent entries feed the moving average.
const historyWindow = 10

// EntrySource is the slice of the repository the estimator reads.
// store.Repo satisfies it.
type EntrySource interface {
	RecentEntries(ctx context.Context, userID int64, c domain.Category, limit int) ([]domain.Entry, error)
}

// Estimator derives the expected gap between activities from logged history.
type Estimator struct {
	repo EntrySource
}

// NewEstimator creates an Estimator over the given entry source.
func NewEstimator(repo EntrySource) *Estimator {
	return &Estimator{repo: repo}
}

// AverageInterval returns the mean gap in whole seconds between the user's
// recent entries of one category. ok is false when fewer than two entries
// exist, which makes the interval unknown.
func (e *Estimator) AverageInterval(ctx context.Context, userID int64, c domain.Category) (int, bool, error) {
	entries, err := e.repo.RecentEntries(ctx, userID, c, historyWindow)
	if err != nil {
		return 0, false, err
	}
	if len(entries) < 2 {
		return 0, false, nil
	}

	var total time.Duration
	var pairs int
	for i := 0; i < len(entries)-1; i++ {
		t1, err1 := entryTime(entries[i])
		t2, err2 := entryTime(entries[i+1])
		if err1 != nil || err2 != nil {
			continue
		}
		d := t1.Sub(t2)
		if d < 0 {
			d = -d
		}
		total += d
		pairs++
	}
	if pairs == 0 {
		return 0, false, nil
	}
	return int(total.Seconds()) / pairs, true, nil
}

func entryTime(e domain.Entry) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", e.Date+" "+e.Start)
}
