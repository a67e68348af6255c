package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/gateway"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/storefront/cli"
	"storefront/internal/storefront/tui"
)

func main() {
	apiURL := flag.String("api", "", "base URL of the ordering API (overrides API_BASE_URL)")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *apiURL != "" {
		cfg.Client.APIBaseURL = *apiURL
	}

	zapLogger, err := logger.NewFile(cfg.Log.Level, cfg.Client.LogFile)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := gateway.New(cfg.Client.APIBaseURL, cfg.Client.Timeout, zapLogger)
	api := tui.NewGatewayAPI(client)
	zapLogger.Info("storefront starting", zap.String("api", cfg.Client.APIBaseURL))

	code := cli.Run(ctx, flag.Args(), cli.Options{
		API:    api,
		Logger: zapLogger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		StartUI: func(ctx context.Context, route string) error {
			return tui.Run(ctx, api, zapLogger, route)
		},
	})
	stop()
	_ = zapLogger.Sync()
	os.Exit(code)
}
