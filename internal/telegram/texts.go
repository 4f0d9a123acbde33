package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dev-canvas/babycutecare-bot/internal/domain"
)

// Button texts
const (
	btnStop       = "⏹ Stop"
	btnReports    = "📊 Reports"
	btnStats      = "📈 Stats"
	btnOtherZone  = "🌍 Other zone"
	btnSkipTZ     = "⏭️ Skip"
	btnNoteYes    = "📝 Yes"
	btnNoteNo     = "⏭ No"
	btnToday      = "📄 Today"
	btnByDate     = "📅 By date"
	btnByCategory = "📋 By category"
	btnExport     = "📥 Export CSV"
	btnBack       = "⬅️ Back"
)

// UI texts
const (
	askBabyNameText = "👶 Hi! I will help you track your baby's routine.\n\n" +
		"What is your child's name?"
	askTimezoneText       = "🌍 Choose your timezone:"
	timezoneAfterName     = "✅ Great! Now choose your timezone:"
	reportsMenuText       = "Choose a report type:"
	askNoteText           = "Add a note?"
	askNoteBodyText       = "📝 Enter a note (mood, details, etc.):"
	noteChoiceHintText    = "Choose \"📝 Yes\" or \"⏭ No\""
	noteSavedText         = "✅ Note saved!"
	doneText              = "✅ Done!"
	mainMenuText          = "Main menu"
	useButtonsText        = "Use the menu buttons 👇"
	timerRunningText      = "⏳ A timer is already running! Press \"⏹ Stop\" to finish."
	timerNotRunningText   = "⏰ No timer running! Pick an activity to start."
	askVolumeRetryText    = "❌ Enter a valid volume (1-500 ml):"
	askVolumeNumberText   = "❌ Enter a number (for example: 120):"
	saveErrorText         = "❌ Saving error"
	internalErrorText     = "Something went wrong. Please try again later."
	noEntriesText         = "📋 You have no entries yet."
	nothingToExportText   = "❌ You have no entries to export."
	chooseTimezoneHint    = "Please choose one of the options:"
	chooseCalendarText    = "📅 Pick a date:"
	chooseCategoryText    = "📋 Pick a category:"
)

// timezonePresets maps preset keyboard labels to timezone identifiers.
// Skip stores the default zone explicitly so /start does not re-prompt.
var timezonePresets = map[string]string{
	"🇷🇺 Moscow (UTC+3)":        "Europe/Moscow",
	"🇬🇪 Batumi (UTC+4)":        "Asia/Tbilisi",
	"🇷🇺 Samara (UTC+4)":        "Europe/Samara",
	"🇷🇺 Yekaterinburg (UTC+5)": "Asia/Yekaterinburg",
	"🇬🇧 London (UTC+0)":        "Europe/London",
	"🇹🇭 Bangkok (UTC+7)":       "Asia/Bangkok",
	btnSkipTZ:                    domain.DefaultTimezone,
}

func invalidTimezoneText(entered string) string {
	return fmt.Sprintf("❌ Timezone %q not found.\nSupported: %s",
		entered, strings.Join(domain.TimezoneNames(), ", "))
}

func customTimezonePrompt() string {
	return "Enter a timezone:\n" + strings.Join(domain.TimezoneNames(), ", ")
}

// mainKeyboard builds the reply keyboard with activity and report buttons.
func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(domain.Breastfeeding.Button()),
			tgbotapi.NewKeyboardButton(domain.Sleep.Button()),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(domain.Formula.Button()),
			tgbotapi.NewKeyboardButton(btnStop),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnReports),
			tgbotapi.NewKeyboardButton(btnStats),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func timezoneKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{tgbotapi.NewKeyboardButton("🇷🇺 Moscow (UTC+3)")},
		{tgbotapi.NewKeyboardButton("🇬🇪 Batumi (UTC+4)")},
		{tgbotapi.NewKeyboardButton("🇷🇺 Samara (UTC+4)")},
		{tgbotapi.NewKeyboardButton("🇷🇺 Yekaterinburg (UTC+5)")},
		{tgbotapi.NewKeyboardButton("🇬🇧 London (UTC+0)")},
		{tgbotapi.NewKeyboardButton("🇹🇭 Bangkok (UTC+7)")},
		{tgbotapi.NewKeyboardButton(btnOtherZone)},
		{tgbotapi.NewKeyboardButton(btnSkipTZ)},
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func reportsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnByDate),
			tgbotapi.NewKeyboardButton(btnByCategory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnExport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func noteChoiceKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNoteYes),
			tgbotapi.NewKeyboardButton(btnNoteNo),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// calendarKeyboard builds an inline month grid with prev/next navigation.
func calendarKeyboard(year int, month time.Month) tgbotapi.InlineKeyboardMarkup {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	lastDay := next.AddDate(0, 0, -1).Day()

	var rows [][]tgbotapi.InlineKeyboardButton

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀", fmt.Sprintf("cal:%d:%02d", prev.Year(), int(prev.Month()))),
		tgbotapi.NewInlineKeyboardButtonData(first.Format("January 2006"), "noop"),
		tgbotapi.NewInlineKeyboardButtonData("▶", fmt.Sprintf("cal:%d:%02d", next.Year(), int(next.Month()))),
	))

	weekdays := []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	var header []tgbotapi.InlineKeyboardButton
	for _, d := range weekdays {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(d, "noop"))
	}
	rows = append(rows, header)

	// Monday-first offset for the 1st of the month.
	offset := (int(first.Weekday()) + 6) % 7
	var week []tgbotapi.InlineKeyboardButton
	for i := 0; i < offset; i++ {
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", "noop"))
	}
	for day := 1; day <= lastDay; day++ {
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d", day),
			fmt.Sprintf("date:%d:%02d:%02d", year, int(month), day),
		))
		if len(week) == 7 {
			rows = append(rows, week)
			week = nil
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel_calendar"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// categoriesKeyboard builds an inline keyboard over the user's logged
// categories, two per row.
func categoriesKeyboard(cats []domain.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range cats {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			c.Emoji()+" "+c.Label(), "cat:"+string(c)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel_cat"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
