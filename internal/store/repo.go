package store

import (
	"context"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// CategoryStats is an aggregate over all of a user's entries in one category.
type CategoryStats struct {
	Count         int
	TotalDuration int
	AvgVolume     *float64 // nil when no entry has a volume
}

// Repo defines storage operations for users, timezones and the activity log.
type Repo interface {
	// UpsertUser creates or refreshes a user row. The stored baby name and
	// joined date survive repeated upserts.
	UpsertUser(ctx context.Context, u *domain.User) error
	GetBabyName(ctx context.Context, userID int64) (string, error)
	SetBabyName(ctx context.Context, userID int64, name string) error

	// GetTimezone returns the stored identifier or "" when unset.
	GetTimezone(ctx context.Context, userID int64) (string, error)
	// SetTimezone upserts the identifier; domain.ErrInvalidTimezone if it is
	// not in the supported set.
	SetTimezone(ctx context.Context, userID int64, tz string) error

	// AppendEntry inserts a new activity log entry and returns its id.
	AppendEntry(ctx context.Context, e *domain.Entry) (int64, error)
	// SetEntryNote attaches a note to an entry owned by userID.
	SetEntryNote(ctx context.Context, id, userID int64, note string) error

	// RecentEntries returns up to limit entries for user+category ordered by
	// (date, time_start) descending.
	RecentEntries(ctx context.Context, userID int64, c domain.Category, limit int) ([]domain.Entry, error)
	// EntriesByDate returns the entries for user+date ordered by time_start
	// ascending.
	EntriesByDate(ctx context.Context, userID int64, date string) ([]domain.Entry, error)
	// AllEntries returns every entry for the user ordered by
	// (date, time_start) descending.
	AllEntries(ctx context.Context, userID int64) ([]domain.Entry, error)
	CountEntries(ctx context.Context, userID int64) (int, error)
	DistinctCategories(ctx context.Context, userID int64) ([]domain.Category, error)
	CategoryTotals(ctx context.Context, userID int64, c domain.Category) (CategoryStats, error)

	Close() error
}
