package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dev-canvas/babycutecare-bot/internal/reminder"
	"github.com/dev-canvas/babycutecare-bot/internal/report"
	"github.com/dev-canvas/babycutecare-bot/internal/session"
	"github.com/dev-canvas/babycutecare-bot/internal/store"
	"github.com/dev-canvas/babycutecare-bot/internal/tracker"
)

// BotAPI is the slice of the Telegram client the router uses. *tgbotapi.BotAPI
// satisfies it; tests supply a fake.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router wires Telegram updates to the conversational flows.
type Router struct {
	api       BotAPI
	log       *zap.Logger
	repo      store.Repo
	sessions  *session.Store
	timers    *tracker.Registry
	reminders *reminder.Scheduler
	est       *reminder.Estimator
	reports   *report.Service
	defaultTZ string
}

// NewRouter creates a Telegram router.
func NewRouter(
	api BotAPI,
	log *zap.Logger,
	repo store.Repo,
	sessions *session.Store,
	timers *tracker.Registry,
	est *reminder.Estimator,
	reports *report.Service,
	defaultTZ string,
) *Router {
	return &Router{
		api:       api,
		log:       log,
		repo:      repo,
		sessions:  sessions,
		timers:    timers,
		est:       est,
		reports:   reports,
		defaultTZ: defaultTZ,
	}
}

// SetScheduler attaches the reminder scheduler. Separate from NewRouter
// because the scheduler needs the router as its Sender.
func (r *Router) SetScheduler(s *reminder.Scheduler) { r.reminders = s }

// HandleUpdate routes a single update by session state, then by button text.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		userID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		if strings.HasPrefix(text, "/start") {
			r.handleStart(ctx, msg)
			return
		}

		switch r.sessions.Get(userID).State {
		case session.AwaitingBabyName:
			r.handleBabyName(ctx, userID, text)
		case session.AwaitingTimezoneChoice:
			r.handleTimezoneChoice(ctx, userID, text)
		case session.AwaitingCustomTimezone:
			r.handleCustomTimezone(ctx, userID, text)
		case session.AwaitingVolume:
			r.handleVolume(ctx, userID, text)
		case session.AwaitingNoteChoice:
			r.handleNoteChoice(ctx, userID, text)
		case session.AwaitingNoteText:
			r.handleNoteText(ctx, userID, text)
		case session.AwaitingReportsMenu:
			r.handleReportsMenu(ctx, userID, text)
		default:
			r.handleIdle(ctx, userID, text)
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil {
			_ = r.answerCallback(cb.ID, "")
			return
		}
		data := cb.Data

		switch {
		case strings.HasPrefix(data, "cal:"):
			r.handleCalendarNav(cb)
		case strings.HasPrefix(data, "date:"):
			r.handleDateSelection(ctx, cb)
		case strings.HasPrefix(data, "cat:"):
			r.handleCategorySelection(ctx, cb)
		case data == "cancel_calendar", data == "cancel_cat":
			r.handleCancelPicker(cb)
		default:
			// noop and unknown callbacks: just ack
			_ = r.answerCallback(cb.ID, "")
		}
		return
	}
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy reminder.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	_, err := r.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// --- Generic send helpers ---

func (r *Router) sendText(chatID int64, text string) {
	_, _ = r.api.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendWithMarkup(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, _ = r.api.Send(msg)
}

func (r *Router) sendMarkdown(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, _ = r.api.Send(msg)
}

func (r *Router) answerCallback(id, text string) error {
	_, err := r.api.Request(tgbotapi.NewCallback(id, text))
	return err
}

func (r *Router) deleteMessage(chatID int64, messageID int) {
	_, _ = r.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
}
