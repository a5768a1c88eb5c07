package main

import (
	"context"
	"os"

	adapterlogger "county-revenue/internal/adapters/logger"
	"county-revenue/internal/infrastructure/config"
	platformlambda "county-revenue/internal/platform/lambda"
	"county-revenue/internal/platform/server"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		adapterlogger.New("county-revenue", "info").Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	logger := adapterlogger.New("county-revenue", cfg.LogLevel).With("env", cfg.Env, "runtime", "lambda")

	app, err := server.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to build application", "error", err)
		os.Exit(1)
	}
	lambda.Start(platformlambda.NewHandler(app.Echo, cfg.PayloadVersion))
}
