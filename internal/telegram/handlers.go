package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
	"github.com/dev-canvas/babycutecare-bot/internal/report"
	"github.com/dev-canvas/babycutecare-bot/internal/session"
	"github.com/dev-canvas/babycutecare-bot/internal/tracker"
)

// babyName returns the stored child name or the generic fallback.
func (r *Router) babyName(ctx context.Context, userID int64) string {
	name, err := r.repo.GetBabyName(ctx, userID)
	if err != nil {
		r.log.Error("GetBabyName failed", zap.Error(err), zap.Int64("userID", userID))
		return domain.FallbackBabyName
	}
	if name == "" {
		return domain.FallbackBabyName
	}
	return name
}

// userTimezone resolves the user's zone, falling back to the configured
// default when unset.
func (r *Router) userTimezone(ctx context.Context, userID int64) domain.Timezone {
	tz, err := r.repo.GetTimezone(ctx, userID)
	if err != nil {
		r.log.Error("GetTimezone failed", zap.Error(err), zap.Int64("userID", userID))
	}
	if tz == "" {
		tz = r.defaultTZ
	}
	return domain.NewTimezone(tz)
}

// --- Onboarding ---

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.Chat.ID

	u := &domain.User{ID: userID, JoinedDate: time.Now().Format("2006-01-02")}
	if msg.From != nil {
		u.Username = msg.From.UserName
		u.FirstName = msg.From.FirstName
	}
	if err := r.repo.UpsertUser(ctx, u); err != nil {
		r.log.Error("UpsertUser failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}

	name, err := r.repo.GetBabyName(ctx, userID)
	if err != nil {
		r.log.Error("GetBabyName failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	if name == "" {
		r.sessions.Set(userID, session.Session{State: session.AwaitingBabyName})
		r.sendText(userID, askBabyNameText)
		return
	}

	tz, err := r.repo.GetTimezone(ctx, userID)
	if err != nil {
		r.log.Error("GetTimezone failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	if tz == "" {
		r.sessions.Set(userID, session.Session{State: session.AwaitingTimezoneChoice})
		r.sendWithMarkup(userID, askTimezoneText, timezoneKeyboard())
		return
	}

	r.sessions.Clear(userID)
	r.sendWithMarkup(userID,
		fmt.Sprintf("👶 Welcome back! Still keeping an eye on %s!", name),
		mainKeyboard())
}

func (r *Router) handleBabyName(ctx context.Context, userID int64, text string) {
	name := domain.TruncateBabyName(text)
	if name == "" {
		r.sendText(userID, askBabyNameText)
		return
	}
	if err := r.repo.SetBabyName(ctx, userID, name); err != nil {
		r.log.Error("SetBabyName failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	r.sessions.Set(userID, session.Session{State: session.AwaitingTimezoneChoice})
	r.sendWithMarkup(userID, timezoneAfterName, timezoneKeyboard())
}

func (r *Router) handleTimezoneChoice(ctx context.Context, userID int64, text string) {
	if tz, ok := timezonePresets[text]; ok {
		if err := r.repo.SetTimezone(ctx, userID, tz); err != nil {
			r.log.Error("SetTimezone failed", zap.Error(err), zap.Int64("userID", userID))
			r.sendText(userID, internalErrorText)
			return
		}
		r.sessions.Clear(userID)
		r.sendWithMarkup(userID,
			fmt.Sprintf("🎉 All set! Now tracking %s!", r.babyName(ctx, userID)),
			mainKeyboard())
		return
	}
	if text == btnOtherZone {
		r.sessions.Set(userID, session.Session{State: session.AwaitingCustomTimezone})
		r.sendText(userID, customTimezonePrompt())
		return
	}
	r.sendWithMarkup(userID, chooseTimezoneHint, timezoneKeyboard())
}

func (r *Router) handleCustomTimezone(ctx context.Context, userID int64, text string) {
	tz := strings.TrimSpace(text)
	err := r.repo.SetTimezone(ctx, userID, tz)
	if errors.Is(err, domain.ErrInvalidTimezone) {
		r.sendText(userID, invalidTimezoneText(tz))
		return
	}
	if err != nil {
		r.log.Error("SetTimezone failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	r.sessions.Clear(userID)
	r.sendWithMarkup(userID,
		fmt.Sprintf("✅ Timezone %s set!\n\n🎉 Now tracking %s!", tz, r.babyName(ctx, userID)),
		mainKeyboard())
}

// --- Idle dispatch ---

func (r *Router) handleIdle(ctx context.Context, userID int64, text string) {
	if c, ok := domain.CategoryFromButton(text); ok {
		r.startActivity(ctx, userID, c)
		return
	}
	switch text {
	case btnStop:
		r.stopActivity(ctx, userID)
	case btnReports:
		r.sessions.Set(userID, session.Session{State: session.AwaitingReportsMenu})
		r.sendWithMarkup(userID, reportsMenuText, reportsKeyboard())
	case btnStats:
		r.sendStatistics(ctx, userID)
	default:
		if _, running := r.timers.Active(userID); running {
			r.sendText(userID, timerRunningText)
		} else {
			r.sendWithMarkup(userID, useButtonsText, mainKeyboard())
		}
	}
}

// --- Activity lifecycle ---

func (r *Router) startActivity(ctx context.Context, userID int64, c domain.Category) {
	if _, err := r.timers.Start(userID, c); err != nil {
		if errors.Is(err, tracker.ErrAlreadyRunning) {
			r.sendText(userID, timerRunningText)
			return
		}
		r.log.Error("timer start failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	r.sendWithMarkup(userID,
		fmt.Sprintf("%s %s started for %s!\n⏱ Timer running...",
			c.Emoji(), c.Label(), r.babyName(ctx, userID)),
		mainKeyboard())
}

func (r *Router) stopActivity(ctx context.Context, userID int64) {
	t, elapsed, err := r.timers.Stop(userID)
	if err != nil {
		if errors.Is(err, tracker.ErrNoActiveTimer) {
			r.sendText(userID, timerNotRunningText)
			return
		}
		r.log.Error("timer stop failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}

	start := r.userTimezone(ctx, userID).Now().Format("15:04")
	name := r.babyName(ctx, userID)

	if t.Category.HasVolume() {
		r.sessions.Set(userID, session.Session{
			State:    session.AwaitingVolume,
			Category: t.Category,
			Elapsed:  elapsed,
			Start:    start,
			Date:     t.Date,
		})
		r.sendText(userID, fmt.Sprintf("🍶 %s has eaten!\n⏱ Time: %s\n\n💧 Enter the formula volume (ml):",
			name, domain.FormatDuration(elapsed)))
		return
	}

	entry := &domain.Entry{
		UserID:   userID,
		Category: t.Category,
		Duration: elapsed,
		Date:     t.Date,
		Start:    start,
	}
	id, err := r.repo.AppendEntry(ctx, entry)
	if err != nil {
		r.log.Error("AppendEntry failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}

	r.sendWithMarkup(userID,
		fmt.Sprintf("%s %s finished!\n👶 %s\n⏱ Time: %s\n📅 %s",
			t.Category.Emoji(), t.Category.Label(), name,
			domain.FormatDuration(elapsed), t.Date),
		mainKeyboard())

	r.scheduleReminder(ctx, userID, t.Category, name)
	r.askNote(userID, id)
}

func (r *Router) handleVolume(ctx context.Context, userID int64, text string) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		r.sendText(userID, askVolumeNumberText)
		return
	}
	if v < 1 || v > 500 {
		r.sendText(userID, askVolumeRetryText)
		return
	}

	sess := r.sessions.Get(userID)
	name := r.babyName(ctx, userID)

	entry := &domain.Entry{
		UserID:   userID,
		Category: sess.Category,
		Duration: sess.Elapsed,
		Volume:   &v,
		Date:     sess.Date,
		Start:    sess.Start,
	}
	id, err := r.repo.AppendEntry(ctx, entry)
	if err != nil {
		r.log.Error("AppendEntry failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}

	r.sendWithMarkup(userID,
		fmt.Sprintf("🍶 %s finished!\n👶 %s\n⏱ Time: %s\n💧 Volume: %d ml\n📅 %s",
			sess.Category.Label(), name,
			domain.FormatDuration(sess.Elapsed), v, sess.Date),
		mainKeyboard())

	r.scheduleReminder(ctx, userID, sess.Category, name)
	r.askNote(userID, id)
}

// scheduleReminder arms a nudge for the next expected activity when enough
// history exists. Estimation failures only cost the reminder.
func (r *Router) scheduleReminder(ctx context.Context, userID int64, c domain.Category, name string) {
	if r.reminders == nil {
		return
	}
	avg, ok, err := r.est.AverageInterval(ctx, userID, c)
	if err != nil {
		r.log.Error("AverageInterval failed", zap.Error(err), zap.Int64("userID", userID))
		return
	}
	if ok && avg > 300 {
		r.reminders.Schedule(userID, c, name, avg)
	}
}

// --- Note flow ---

func (r *Router) askNote(userID int64, entryID int64) {
	r.sessions.Set(userID, session.Session{State: session.AwaitingNoteChoice, EntryID: entryID})
	r.sendWithMarkup(userID, askNoteText, noteChoiceKeyboard())
}

func (r *Router) handleNoteChoice(ctx context.Context, userID int64, text string) {
	switch text {
	case btnNoteNo:
		r.sessions.Clear(userID)
		r.sendWithMarkup(userID, doneText, mainKeyboard())
	case btnNoteYes:
		r.sessions.SetState(userID, session.AwaitingNoteText)
		r.sendText(userID, askNoteBodyText)
	default:
		r.sendText(userID, noteChoiceHintText)
	}
}

func (r *Router) handleNoteText(ctx context.Context, userID int64, text string) {
	sess := r.sessions.Get(userID)
	if sess.EntryID == 0 {
		r.sessions.Clear(userID)
		r.sendWithMarkup(userID, saveErrorText, mainKeyboard())
		return
	}
	note := domain.TruncateNote(text)
	if err := r.repo.SetEntryNote(ctx, sess.EntryID, userID, note); err != nil {
		r.log.Error("SetEntryNote failed", zap.Error(err), zap.Int64("userID", userID))
		r.sessions.Clear(userID)
		r.sendWithMarkup(userID, saveErrorText, mainKeyboard())
		return
	}
	r.sessions.Clear(userID)
	r.sendWithMarkup(userID, noteSavedText, mainKeyboard())
}

// --- Reports ---

func (r *Router) handleReportsMenu(ctx context.Context, userID int64, text string) {
	switch text {
	case btnToday:
		r.sessions.Clear(userID)
		r.sendDateReport(ctx, userID, time.Now().Format("2006-01-02"))
	case btnByDate:
		r.sessions.SetState(userID, session.ChoosingCalendarMonth)
		now := time.Now()
		r.sendWithMarkup(userID, chooseCalendarText, calendarKeyboard(now.Year(), now.Month()))
	case btnByCategory:
		cats, err := r.repo.DistinctCategories(ctx, userID)
		if err != nil {
			r.log.Error("DistinctCategories failed", zap.Error(err), zap.Int64("userID", userID))
			r.sendText(userID, internalErrorText)
			return
		}
		if len(cats) == 0 {
			r.sendText(userID, noEntriesText)
			return
		}
		r.sessions.SetState(userID, session.ChoosingCategoryReport)
		r.sendWithMarkup(userID, chooseCategoryText, categoriesKeyboard(cats))
	case btnExport:
		r.sessions.Clear(userID)
		r.handleExport(ctx, userID)
	case btnBack:
		r.sessions.Clear(userID)
		r.sendWithMarkup(userID, mainMenuText, mainKeyboard())
	default:
		r.sendWithMarkup(userID, reportsMenuText, reportsKeyboard())
	}
}

func (r *Router) sendDateReport(ctx context.Context, userID int64, date string) {
	rep, err := r.reports.ForDate(ctx, userID, date)
	if err != nil {
		r.log.Error("ForDate failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	if rep == nil {
		r.sendWithMarkup(userID, fmt.Sprintf("📊 No entries for %s.", date), mainKeyboard())
		return
	}
	r.sendMarkdown(userID, report.FormatDate(rep, r.babyName(ctx, userID)), mainKeyboard())
}

func (r *Router) sendCategoryReport(ctx context.Context, userID int64, c domain.Category) {
	rep, err := r.reports.ForCategory(ctx, userID, c)
	if err != nil {
		r.log.Error("ForCategory failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	if rep == nil {
		r.sendWithMarkup(userID, fmt.Sprintf("📋 No entries for category %q.", c.Label()), mainKeyboard())
		return
	}
	r.sendMarkdown(userID, report.FormatCategory(rep, r.babyName(ctx, userID)), mainKeyboard())
}

func (r *Router) sendStatistics(ctx context.Context, userID int64) {
	lines, err := r.reports.Summary(ctx, userID)
	if err != nil {
		r.log.Error("Summary failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	r.sendMarkdown(userID, report.FormatSummary(lines, r.babyName(ctx, userID)), nil)
}

func (r *Router) handleExport(ctx context.Context, userID int64) {
	data, count, err := r.reports.ExportCSV(ctx, userID)
	if err != nil {
		r.log.Error("ExportCSV failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	if count == 0 {
		r.sendText(userID, nothingToExportText)
		return
	}

	name := r.babyName(ctx, userID)
	doc := tgbotapi.NewDocument(userID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("baby_%s_%s.csv", name, time.Now().Format("2006-01-02")),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📊 Data for %s\n📋 Entries: %d", name, count)
	if _, err := r.api.Send(doc); err != nil {
		r.log.Error("document send failed", zap.Error(err), zap.Int64("userID", userID))
		r.sendText(userID, internalErrorText)
		return
	}
	r.sendWithMarkup(userID, doneText, mainKeyboard())
}

// --- Callback handlers ---

func (r *Router) handleCalendarNav(cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(cb.Data, ":")
	if len(parts) != 3 {
		_ = r.answerCallback(cb.ID, "")
		return
	}
	year, err1 := strconv.Atoi(parts[1])
	month, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		_ = r.answerCallback(cb.ID, "")
		return
	}
	edit := tgbotapi.NewEditMessageReplyMarkup(
		cb.Message.Chat.ID, cb.Message.MessageID,
		calendarKeyboard(year, time.Month(month)))
	_, _ = r.api.Send(edit)
	_ = r.answerCallback(cb.ID, "")
}

func (r *Router) handleDateSelection(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.Message.Chat.ID
	parts := strings.Split(cb.Data, ":")
	if len(parts) != 4 {
		_ = r.answerCallback(cb.ID, "")
		return
	}
	year, err1 := strconv.Atoi(parts[1])
	month, err2 := strconv.Atoi(parts[2])
	day, err3 := strconv.Atoi(parts[3])
	if err1 != nil || err2 != nil || err3 != nil {
		_ = r.answerCallback(cb.ID, "")
		return
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	r.deleteMessage(userID, cb.Message.MessageID)
	r.sessions.Clear(userID)
	_ = r.answerCallback(cb.ID, "")
	r.sendDateReport(ctx, userID, date)
}

func (r *Router) handleCategorySelection(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	userID := cb.Message.Chat.ID
	c := domain.Category(strings.TrimPrefix(cb.Data, "cat:"))
	if !c.Valid() {
		_ = r.answerCallback(cb.ID, "")
		return
	}
	r.deleteMessage(userID, cb.Message.MessageID)
	r.sessions.Clear(userID)
	_ = r.answerCallback(cb.ID, "")
	r.sendCategoryReport(ctx, userID, c)
}

func (r *Router) handleCancelPicker(cb *tgbotapi.CallbackQuery) {
	userID := cb.Message.Chat.ID
	r.sessions.Clear(userID)
	r.deleteMessage(userID, cb.Message.MessageID)
	_ = r.answerCallback(cb.ID, "")
}
