package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agencyworks/project-system/internal/api"
	"github.com/agencyworks/project-system/internal/core/ports"
	mongostore "github.com/agencyworks/project-system/internal/infrastructure/db/mongo"
	redisstore "github.com/agencyworks/project-system/internal/infrastructure/db/redis"
	"github.com/agencyworks/project-system/internal/infrastructure/lock"
	"github.com/agencyworks/project-system/internal/infrastructure/notify"
	"github.com/agencyworks/project-system/internal/infrastructure/queue"
	"github.com/agencyworks/project-system/internal/pkg/config"
	"github.com/agencyworks/project-system/pkg/logger"
)

// @title           Project System API
// @version         1.0
// @description     Authorization, project lifecycle and review workflow engine for agency project management.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Entity locks: Redis lease locks when configured, in-process otherwise ---
	var (
		rdb    *redis.Client
		locker ports.EntityLocker
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		locker = redisstore.NewEntityLocker(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis entity locks")
	} else {
		locker = lock.NewKeyedMutex()
		log.Warn().Msg("REDIS_ADDR not set, using in-process entity locks (single instance only)")
	}

	// --- Notification dispatcher ---
	sender := notify.NewWhatsAppSender(mongostore.NewUserRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, sender, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, locker, dispatcher, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
