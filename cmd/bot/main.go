package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/dev-canvas/babycutecare-bot/internal/app"
	"github.com/dev-canvas/babycutecare-bot/internal/config"
	"github.com/dev-canvas/babycutecare-bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Ensure logger flush; ignore sync error (common on some platforms).
	defer func() { _ = log.Sync() }()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Error("app init failed", zap.Error(err))
		os.Exit(1)
	}

	if err := a.Run(context.Background()); err != nil {
		log.Error("app stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
