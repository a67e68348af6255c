package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/infrastructure/redis"
	"storefront/internal/menu"
	"storefront/internal/order"
	"storefront/internal/server"
	"storefront/internal/statusbus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mysql.EnsureSchema(startupCtx, db); err != nil {
		zapLogger.Fatal("applying schema", zap.Error(err))
	}

	menuModule := menu.NewModule(db, zapLogger)
	if cfg.Menu.SeedFile != "" {
		items, err := menu.LoadSeedFile(cfg.Menu.SeedFile)
		if err != nil {
			zapLogger.Fatal("loading menu seed", zap.String("file", cfg.Menu.SeedFile), zap.Error(err))
		}
		if err := menuModule.Service.Seed(startupCtx, items); err != nil {
			zapLogger.Fatal("seeding menu", zap.Error(err))
		}
	}
	cancelStartup()

	var bus statusbus.Bus
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.NewConnection(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer redisClient.Close()
		bus = statusbus.NewRedisBus(redisClient, statusbus.DefaultBuffer, zapLogger)
		zapLogger.Info("status bus: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		bus = statusbus.NewLocalBus(statusbus.DefaultBuffer, zapLogger)
		zapLogger.Info("status bus: in-process")
	}

	orderModule := order.NewModule(db, bus, cfg, zapLogger)

	router := server.NewRouter(menuModule.Controller, orderModule, server.RouterConfig{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Limiter:        server.NewRateLimiter(cfg.Order.CreateRatePerMinute, zapLogger),
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)
	srv.RegisterOnShutdown(orderModule.Stream.Close)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	if err := srv.Shutdown(context.Background()); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
