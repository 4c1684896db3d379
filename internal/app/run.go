package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"socialchat/internal/config"
	"socialchat/internal/logger"
)

// Run is the process entry point: config, logger, server, signal handling.
func Run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(cfg, log)
	if err != nil {
		log.Error("[app] init failed", zap.Error(err))
		return err
	}
	return a.Run(ctx)
}
