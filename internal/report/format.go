package report

import (
	"fmt"
	"strings"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// FormatDate renders a date report as Telegram Markdown.
func FormatDate(r *DateReport, babyName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Report for %s*\n👶 %s\n\n", r.Date, babyName)

	for _, cs := range r.Categories {
		fmt.Fprintf(&b, "%s *%s*: %dx, ⏱ %s",
			cs.Category.Emoji(), cs.Category.Label(), cs.Count, domain.FormatDuration(cs.TotalDuration))
		if cs.AvgVolume != nil {
			fmt.Fprintf(&b, ", 💧 %d ml avg", *cs.AvgVolume)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n*Details:*\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%s | %s %s: %s",
			e.Start, e.Category.Emoji(), e.Category.Label(), domain.FormatDuration(e.Duration))
		if e.Volume != nil {
			fmt.Fprintf(&b, " (%d ml)", *e.Volume)
		}
		if e.Note != nil {
			fmt.Fprintf(&b, "\n  💬 %s", *e.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatCategory renders a category report as Telegram Markdown.
func FormatCategory(r *CategoryReport, babyName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *Report: %s %s*\n👶 %s\n\n",
		r.Category.Emoji(), r.Category.Label(), babyName)
	fmt.Fprintf(&b, "*Entries:* %d\n", r.Count)
	fmt.Fprintf(&b, "*Total time:* %s\n", domain.FormatDuration(r.TotalDuration))
	if r.AvgVolume != nil {
		fmt.Fprintf(&b, "*Average volume:* %d ml\n", *r.AvgVolume)
	}

	b.WriteString("\n*Recent entries:*\n")
	for _, e := range r.Recent {
		fmt.Fprintf(&b, "%s %s: %s", e.Date, e.Start, domain.FormatDuration(e.Duration))
		if e.Volume != nil {
			fmt.Fprintf(&b, " (%d ml)", *e.Volume)
		}
		if e.Note != nil {
			fmt.Fprintf(&b, "\n  💬 %s", *e.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSummary renders the all-time statistics as Telegram Markdown.
func FormatSummary(lines []SummaryLine, babyName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 *Statistics*\n👶 %s\n\n", babyName)

	for _, l := range lines {
		fmt.Fprintf(&b, "%s *%s*\n", l.Category.Emoji(), l.Category.Label())
		fmt.Fprintf(&b, "  Entries: %d\n", l.Stats.Count)
		if l.Stats.TotalDuration > 0 {
			fmt.Fprintf(&b, "  Time: %s\n", domain.FormatDuration(l.Stats.TotalDuration))
		}
		if l.Stats.AvgVolume != nil {
			fmt.Fprintf(&b, "  Average volume: %.1f ml\n", *l.Stats.AvgVolume)
		}
		if l.HasInterval {
			fmt.Fprintf(&b, "  Interval: ~%s\n", domain.FormatDuration(l.AvgInterval))
		}
		b.WriteString("\n")
	}
	return b.String()
}
