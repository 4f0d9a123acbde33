// Package report builds date, category and summary views over the activity
// log, plus the CSV export.
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
	"github.com/dev-canvas/babycutecare-bot/internal/reminder"
	"github.com/dev-canvas/babycutecare-bot/internal/store"
)

// CategorySummary aggregates one category within a report.
type CategorySummary struct {
	Category      domain.Category
	Count         int
	TotalDuration int  // seconds
	AvgVolume     *int // ml, nil when no entry has a volume
}

// DateReport is everything logged on one calendar date.
type DateReport struct {
	Date       string
	Categories []CategorySummary // in first-seen (chronological) order
	Entries    []domain.Entry    // ascending by start time
}

// CategoryReport covers the most recent entries of one category.
type CategoryReport struct {
	Category      domain.Category
	Count         int
	TotalDuration int
	AvgVolume     *int
	Recent        []domain.Entry // at most recentDetailLimit, newest first
}

// SummaryLine is one category's all-time statistics.
type SummaryLine struct {
	Category    domain.Category
	Stats       store.CategoryStats
	AvgInterval int // seconds, meaningful only when HasInterval
	HasInterval bool
}

const (
	categoryFetchLimit = 20
	recentDetailLimit  = 10
)

// Service produces reports from the activity log.
type Service struct {
	repo store.Repo
	est  *reminder.Estimator
}

// NewService creates a report service.
func NewService(repo store.Repo, est *reminder.Estimator) *Service {
	return &Service{repo: repo, est: est}
}

// ForDate builds the report for one date. Returns nil when the date has no
// entries.
func (s *Service) ForDate(ctx context.Context, userID int64, date string) (*DateReport, error) {
	entries, err := s.repo.EntriesByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	r := &DateReport{Date: date, Entries: entries}
	idx := make(map[domain.Category]int)
	for _, e := range entries {
		i, ok := idx[e.Category]
		if !ok {
			i = len(r.Categories)
			idx[e.Category] = i
			r.Categories = append(r.Categories, CategorySummary{Category: e.Category})
		}
		r.Categories[i].Count++
		r.Categories[i].TotalDuration += e.Duration
	}
	for i := range r.Categories {
		r.Categories[i].AvgVolume = averageVolume(entriesOf(entries, r.Categories[i].Category))
	}
	return r, nil
}

// ForCategory builds the report over the user's most recent entries in one
// category. Returns nil when the category has no entries.
func (s *Service) ForCategory(ctx context.Context, userID int64, c domain.Category) (*CategoryReport, error) {
	entries, err := s.repo.RecentEntries(ctx, userID, c, categoryFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	r := &CategoryReport{Category: c, Count: len(entries)}
	for _, e := range entries {
		r.TotalDuration += e.Duration
	}
	// Totals cover the full fetched window; the detail shows only the head.
	r.AvgVolume = averageVolume(entries)
	r.Recent = entries
	if len(r.Recent) > recentDetailLimit {
		r.Recent = r.Recent[:recentDetailLimit]
	}
	return r, nil
}

// Summary builds the all-time per-category statistics, including the current
// average interval where one can be estimated.
func (s *Service) Summary(ctx context.Context, userID int64) ([]SummaryLine, error) {
	lines := make([]SummaryLine, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		stats, err := s.repo.CategoryTotals(ctx, userID, c)
		if err != nil {
			return nil, err
		}
		line := SummaryLine{Category: c, Stats: stats}
		if avg, ok, err := s.est.AverageInterval(ctx, userID, c); err != nil {
			return nil, err
		} else if ok {
			line.AvgInterval = avg
			line.HasInterval = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ExportCSV serializes every entry, newest first, as a UTF-8 CSV with a BOM
// so spreadsheet apps detect the encoding. Returns the bytes and the number
// of data rows; zero rows means there is nothing to export.
func (s *Service) ExportCSV(ctx context.Context, userID int64) ([]byte, int, error) {
	entries, err := s.repo.AllEntries(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return nil, 0, nil
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Time", "Category", "Duration", "Volume (ml)", "Note"}); err != nil {
		return nil, 0, err
	}
	for _, e := range entries {
		volume := ""
		if e.Volume != nil {
			volume = fmt.Sprintf("%d", *e.Volume)
		}
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		row := []string{e.Date, e.Start, e.Category.Label(), domain.FormatDuration(e.Duration), volume, note}
		if err := w.Write(row); err != nil {
			return nil, 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(entries), nil
}

func entriesOf(entries []domain.Entry, c domain.Category) []domain.Entry {
	var res []domain.Entry
	for _, e := range entries {
		if e.Category == c {
			res = append(res, e)
		}
	}
	return res
}

func averageVolume(entries []domain.Entry) *int {
	var sum, n int
	for _, e := range entries {
		if e.Volume != nil {
			sum += *e.Volume
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / n
	return &avg
}
