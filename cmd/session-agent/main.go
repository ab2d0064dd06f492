package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitpulse/session-agent/internal/api"
	"github.com/fitpulse/session-agent/internal/core/ports"
	"github.com/fitpulse/session-agent/internal/core/service"
	"github.com/fitpulse/session-agent/internal/infrastructure/client"
	"github.com/fitpulse/session-agent/internal/infrastructure/config"
	memstore "github.com/fitpulse/session-agent/internal/infrastructure/db/memory"
	mongostore "github.com/fitpulse/session-agent/internal/infrastructure/db/mongo"
	redisstore "github.com/fitpulse/session-agent/internal/infrastructure/db/redis"
	"github.com/fitpulse/session-agent/internal/infrastructure/notify"
	"github.com/fitpulse/session-agent/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Persisted session storage ---
	var (
		store   ports.SessionStore
		cleanup []func()
	)
	switch cfg.Store.Backend {
	case "mongo":
		mclient, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connecting mongo session store")
		}
		store = mongostore.NewSessionStore(db)
		cleanup = append(cleanup, func() { _ = mclient.Disconnect(context.Background()) })
		log.Info().Str("backend", "mongo").Msg("session store ready")
	case "memory":
		store = memstore.NewSessionStore()
		log.Warn().Str("backend", "memory").Msg("session will not survive a restart")
	default:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connecting redis session store")
		}
		store = redisstore.NewSessionStore(rdb)
		cleanup = append(cleanup, func() { _ = rdb.Close() })
		log.Info().Str("backend", "redis").Msg("session store ready")
	}

	// --- Remote platform services ---
	authClient := client.NewAuthClient(cfg.Auth.BaseURL, cfg.Auth.Timeout,
		log.With().Str("component", "auth_client").Logger())
	subsClient := client.NewSubscriptionClient(cfg.Subscription.BaseURL, cfg.Subscription.Timeout,
		log.With().Str("component", "subscription_client").Logger())

	// --- Notification side channel ---
	center := notify.NewCenter(cfg.Notify.History)
	dispatcher := notify.NewDispatcher(cfg.Notify.Buffer,
		center,
		notify.NewLogSink(log.With().Str("component", "notifications").Logger()),
	)

	// --- Session manager ---
	manager := service.NewSessionManager(store, authClient, subsClient, dispatcher,
		log.With().Str("component", "session_manager").Logger())
	manager.Start(ctx)

	// --- HTTP API ---
	e := api.NewRouter(manager, center, store, log)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("session agent listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	manager.Close()
	dispatcher.Close()
	if n := dispatcher.Dropped(); n > 0 {
		log.Warn().Uint64("dropped", n).Msg("notifications dropped on full buffer")
	}
	for _, fn := range cleanup {
		fn()
	}
}
