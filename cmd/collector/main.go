package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bncollector/config"
	"bncollector/internal/collector"
	"bncollector/logger"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg := config.Load()

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run collector until interrupted
	if err := collector.Run(ctx, cfg, log); err != nil {
		log.Fatal("collector failed", zap.Error(err))
	}
	log.Info("collector stopped")
}
