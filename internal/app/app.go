package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dev-canvas/babycutecare-bot/internal/config"
	"github.com/dev-canvas/babycutecare-bot/internal/reminder"
	"github.com/dev-canvas/babycutecare-bot/internal/report"
	"github.com/dev-canvas/babycutecare-bot/internal/session"
	"github.com/dev-canvas/babycutecare-bot/internal/store"
	"github.com/dev-canvas/babycutecare-bot/internal/telegram"
	"github.com/dev-canvas/babycutecare-bot/internal/tracker"
)

type App struct {
	cfg       config.Config
	log       *zap.Logger
	bot       *tgbotapi.BotAPI
	httpSrv   *http.Server
	repo      store.Repo
	router    *telegram.Router
	reminders *reminder.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting babycare bot",
		zap.String("http", a.cfg.HTTPAddr),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	sessions := session.NewStore()
	timers := tracker.NewRegistry()
	est := reminder.NewEstimator(repo)
	reports := report.NewService(repo, est)

	a.router = telegram.NewRouter(a.bot, a.log, repo, sessions, timers, est, reports, a.cfg.DefaultTZ)
	// The scheduler sends through the router, so it is attached after.
	a.reminders = reminder.NewScheduler(a.log, a.router)
	a.router.SetScheduler(a.reminders)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Updates are consumed on this single goroutine, which keeps each user's
	// events causally ordered against their session and timer.
	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			a.reminders.Shutdown()
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
