package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/metalex84/loginkeeper/internal/app"
	"github.com/metalex84/loginkeeper/internal/config"
	"github.com/metalex84/loginkeeper/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	a, err := app.NewApp(ctx, cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error(ctx, "startup failed", logging.ErrorAttrs(err)...)
		os.Exit(1)
	}
	defer a.Close()

	a.Run(ctx)
}
