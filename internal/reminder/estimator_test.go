package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

type fakeEntrySource struct {
	entries []domain.Entry
	err     error
}

func (f *fakeEntrySource) RecentEntries(_ context.Context, _ int64, _ domain.Category, limit int) ([]domain.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func entryAt(date, start string) domain.Entry {
	return domain.Entry{Category: domain.Breastfeeding, Date: date, Start: start}
}

func TestAverageIntervalUnknown(t *testing.T) {
	ctx := context.Background()

	est := NewEstimator(&fakeEntrySource{})
	_, ok, err := est.AverageInterval(ctx, 1, domain.Breastfeeding)
	require.NoError(t, err)
	assert.False(t, ok)

	est = NewEstimator(&fakeEntrySource{entries: []domain.Entry{entryAt("2025-03-10", "10:00")}})
	_, ok, err = est.AverageInterval(ctx, 1, domain.Breastfeeding)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAverageIntervalMean(t *testing.T) {
	// Newest first: gaps of 2h and 1h, mean 1h30m.
	est := NewEstimator(&fakeEntrySource{entries: []domain.Entry{
		entryAt("2025-03-10", "13:00"),
		entryAt("2025-03-10", "11:00"),
		entryAt("2025-03-10", "10:00"),
	}})
	avg, ok, err := est.AverageInterval(context.Background(), 1, domain.Breastfeeding)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5400, avg)
}

func TestAverageIntervalAcrossDates(t *testing.T) {
	// 23:30 yesterday to 00:30 today is one hour.
	est := NewEstimator(&fakeEntrySource{entries: []domain.Entry{
		entryAt("2025-03-11", "00:30"),
		entryAt("2025-03-10", "23:30"),
	}})
	avg, ok, err := est.AverageInterval(context.Background(), 1, domain.Breastfeeding)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3600, avg)
}

func TestAverageIntervalAbsoluteGaps(t *testing.T) {
	// Out-of-order rows still produce positive gaps.
	est := NewEstimator(&fakeEntrySource{entries: []domain.Entry{
		entryAt("2025-03-10", "10:00"),
		entryAt("2025-03-10", "12:00"),
	}})
	avg, ok, err := est.AverageInterval(context.Background(), 1, domain.Breastfeeding)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7200, avg)
}

func TestAverageIntervalSkipsUnparsable(t *testing.T) {
	est := NewEstimator(&fakeEntrySource{entries: []domain.Entry{
		entryAt("2025-03-10", "12:00"),
		entryAt("bogus", "nope"),
	}})
	_, ok, err := est.AverageInterval(context.Background(), 1, domain.Breastfeeding)
	require.NoError(t, err)
	assert.False(t, ok)
}
