package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func intPtr(v int) *int { return &v }

func TestUpsertUserPreservesBabyNameAndJoinedDate(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	require.NoError(t, repo.UpsertUser(ctx, &domain.User{
		ID: 1, Username: "mom", FirstName: "Maria", JoinedDate: "2025-01-01",
	}))
	require.NoError(t, repo.SetBabyName(ctx, 1, "Alice"))

	// A later /start must not wipe the name or the join date.
	require.NoError(t, repo.UpsertUser(ctx, &domain.User{
		ID: 1, Username: "mom2", FirstName: "Maria", JoinedDate: "2025-06-01",
	}))

	name, err := repo.GetBabyName(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestGetBabyNameUnknownUser(t *testing.T) {
	repo := openTestRepo(t)
	name, err := repo.GetBabyName(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestTimezoneRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	tz, err := repo.GetTimezone(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "", tz)

	require.NoError(t, repo.SetTimezone(ctx, 1, "Asia/Bangkok"))
	tz, err = repo.GetTimezone(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Bangkok", tz)

	// Upsert semantics: one row per user.
	require.NoError(t, repo.SetTimezone(ctx, 1, "Europe/London"))
	tz, err = repo.GetTimezone(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", tz)
}

func TestSetTimezoneRejectsUnknown(t *testing.T) {
	repo := openTestRepo(t)
	err := repo.SetTimezone(context.Background(), 1, "Mars/Olympus")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
}

func TestAppendEntryAndNote(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	id, err := repo.AppendEntry(ctx, &domain.Entry{
		UserID: 1, Category: domain.Formula, Duration: 120,
		Volume: intPtr(150), Date: "2025-03-10", Start: "10:00",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, repo.SetEntryNote(ctx, id, 1, "slept right after"))

	entries, err := repo.EntriesByDate(ctx, 1, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Note)
	assert.Equal(t, "slept right after", *entries[0].Note)
	require.NotNil(t, entries[0].Volume)
	assert.Equal(t, 150, *entries[0].Volume)
}

func TestSetEntryNoteScopedToUser(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	id, err := repo.AppendEntry(ctx, &domain.Entry{
		UserID: 1, Category: domain.Sleep, Duration: 60,
		Date: "2025-03-10", Start: "10:00",
	})
	require.NoError(t, err)

	// Another user cannot annotate this entry.
	require.NoError(t, repo.SetEntryNote(ctx, id, 2, "not mine"))

	entries, err := repo.EntriesByDate(ctx, 1, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].Note)
}

func TestQueryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	seed := []struct{ date, start string }{
		{"2025-03-10", "08:00"},
		{"2025-03-11", "07:00"},
		{"2025-03-10", "12:00"},
	}
	for _, s := range seed {
		_, err := repo.AppendEntry(ctx, &domain.Entry{
			UserID: 1, Category: domain.Breastfeeding, Duration: 60,
			Date: s.date, Start: s.start,
		})
		require.NoError(t, err)
	}

	byDate, err := repo.EntriesByDate(ctx, 1, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "08:00", byDate[0].Start)
	assert.Equal(t, "12:00", byDate[1].Start)

	recent, err := repo.RecentEntries(ctx, 1, domain.Breastfeeding, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "2025-03-11", recent[0].Date)
	assert.Equal(t, "12:00", recent[1].Start)
	assert.Equal(t, "08:00", recent[2].Start)

	recent, err = repo.RecentEntries(ctx, 1, domain.Breastfeeding, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	all, err := repo.AllEntries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-03-11", all[0].Date)
}

func TestDistinctCategoriesAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	cats, err := repo.DistinctCategories(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cats)

	for _, c := range []domain.Category{domain.Sleep, domain.Sleep, domain.Formula} {
		_, err := repo.AppendEntry(ctx, &domain.Entry{
			UserID: 1, Category: c, Duration: 60, Date: "2025-03-10", Start: "10:00",
		})
		require.NoError(t, err)
	}

	cats, err = repo.DistinctCategories(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Category{domain.Sleep, domain.Formula}, cats)

	n, err := repo.CountEntries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = repo.CountEntries(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCategoryTotals(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	stats, err := repo.CategoryTotals(ctx, 1, domain.Formula)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Nil(t, stats.AvgVolume)

	for _, v := range []int{100, 200} {
		v := v
		_, err := repo.AppendEntry(ctx, &domain.Entry{
			UserID: 1, Category: domain.Formula, Duration: 300,
			Volume: &v, Date: "2025-03-10", Start: "10:00",
		})
		require.NoError(t, err)
	}

	stats, err = repo.CategoryTotals(ctx, 1, domain.Formula)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 600, stats.TotalDuration)
	require.NotNil(t, stats.AvgVolume)
	assert.InDelta(t, 150.0, *stats.AvgVolume, 0.001)
}
