package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
	"github.com/dev-canvas/babycutecare-bot/internal/reminder"
	"github.com/dev-canvas/babycutecare-bot/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Repo) {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo, reminder.NewEstimator(repo)), repo
}

func seedEntry(t *testing.T, repo store.Repo, c domain.Category, date, start string, dur int, volume *int) int64 {
	t.Helper()
	id, err := repo.AppendEntry(context.Background(), &domain.Entry{
		UserID: 1, Category: c, Duration: dur, Volume: volume, Date: date, Start: start,
	})
	require.NoError(t, err)
	return id
}

func intPtr(v int) *int { return &v }

func TestForDateEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	rep, err := svc.ForDate(context.Background(), 1, "2025-03-10")
	require.NoError(t, err)
	assert.Nil(t, rep)
}

func TestForDateGroupsByCategory(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seedEntry(t, repo, domain.Formula, "2025-03-10", "09:00", 300, intPtr(100))
	seedEntry(t, repo, domain.Formula, "2025-03-10", "12:00", 360, intPtr(200))
	seedEntry(t, repo, domain.Sleep, "2025-03-10", "10:00", 1800, nil)
	// Another date stays out of the report.
	seedEntry(t, repo, domain.Sleep, "2025-03-11", "10:00", 600, nil)

	rep, err := svc.ForDate(ctx, 1, "2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, rep)
	require.Len(t, rep.Entries, 3)
	// Chronological detail.
	assert.Equal(t, "09:00", rep.Entries[0].Start)
	assert.Equal(t, "12:00", rep.Entries[2].Start)

	require.Len(t, rep.Categories, 2)
	byCat := map[domain.Category]CategorySummary{}
	for _, cs := range rep.Categories {
		byCat[cs.Category] = cs
	}

	formula := byCat[domain.Formula]
	assert.Equal(t, 2, formula.Count)
	assert.Equal(t, 660, formula.TotalDuration)
	require.NotNil(t, formula.AvgVolume)
	assert.Equal(t, 150, *formula.AvgVolume)

	sleep := byCat[domain.Sleep]
	assert.Equal(t, 1, sleep.Count)
	assert.Nil(t, sleep.AvgVolume)
}

func TestForCategoryWindows(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	rep, err := svc.ForCategory(ctx, 1, domain.Sleep)
	require.NoError(t, err)
	assert.Nil(t, rep)

	// 25 entries: totals cover the 20 fetched, detail only the 10 newest.
	for i := 0; i < 25; i++ {
		seedEntry(t, repo, domain.Sleep, fmt.Sprintf("2025-03-%02d", i+1), "10:00", 60, nil)
	}

	rep, err = svc.ForCategory(ctx, 1, domain.Sleep)
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, 20, rep.Count)
	assert.Equal(t, 20*60, rep.TotalDuration)
	require.Len(t, rep.Recent, 10)
	assert.Equal(t, "2025-03-25", rep.Recent[0].Date)
}

func TestSummary(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seedEntry(t, repo, domain.Breastfeeding, "2025-03-10", "10:00", 300, nil)
	seedEntry(t, repo, domain.Breastfeeding, "2025-03-10", "12:00", 300, nil)

	lines, err := svc.Summary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, len(domain.Categories))

	byCat := map[domain.Category]SummaryLine{}
	for _, l := range lines {
		byCat[l.Category] = l
	}

	bf := byCat[domain.Breastfeeding]
	assert.Equal(t, 2, bf.Stats.Count)
	assert.Equal(t, 600, bf.Stats.TotalDuration)
	require.True(t, bf.HasInterval)
	assert.Equal(t, 7200, bf.AvgInterval)

	// Categories with no history report zero and no interval.
	assert.Zero(t, byCat[domain.Sleep].Stats.Count)
	assert.False(t, byCat[domain.Sleep].HasInterval)
}

func TestExportCSV(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	data, count, err := svc.ExportCSV(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Nil(t, data)

	id := seedEntry(t, repo, domain.Formula, "2025-03-10", "09:00", 95, intPtr(120))
	require.NoError(t, repo.SetEntryNote(ctx, id, 1, "hungry"))
	seedEntry(t, repo, domain.Sleep, "2025-03-11", "13:00", 3600, nil)

	data, count, err = svc.ExportCSV(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.True(t, bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")))
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Date", "Time", "Category", "Duration", "Volume (ml)", "Note"}, records[0])
	// Newest first.
	assert.Equal(t, []string{"2025-03-11", "13:00", "Sleep", "01:00:00", "", ""}, records[1])
	assert.Equal(t, []string{"2025-03-10", "09:00", "Formula", "00:01:35", "120", "hungry"}, records[2])
}

func TestFormatDateIncludesNotes(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	id := seedEntry(t, repo, domain.Breastfeeding, "2025-03-10", "09:00", 300, nil)
	require.NoError(t, repo.SetEntryNote(ctx, id, 1, "fussy"))

	rep, err := svc.ForDate(ctx, 1, "2025-03-10")
	require.NoError(t, err)

	text := FormatDate(rep, "Alice")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "2025-03-10")
	assert.Contains(t, text, "fussy")
	assert.Contains(t, text, "00:05:00")
}
