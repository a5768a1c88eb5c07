package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapterlogger "county-revenue/internal/adapters/logger"
	"county-revenue/internal/infrastructure/config"
	"county-revenue/internal/platform/server"
	"github.com/aws/aws-xray-sdk-go/xray"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		adapterlogger.New("county-revenue", "info").Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	logger := adapterlogger.New("county-revenue", cfg.LogLevel).With("env", cfg.Env)
	xray.Configure(xray.Config{LogLevel: "error"})

	app, err := server.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to build application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(context.Background(), "failed to release resources", "error", err)
		}
	}()

	go func() {
		logger.Info(ctx, "starting http server", "port", cfg.Port)
		if err := app.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed", "error", err)
	}
	logger.Info(shutdownCtx, "server stopped")
}
