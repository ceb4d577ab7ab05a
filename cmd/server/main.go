package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/suPer8Hu/chat-studio/internal/ai"
	"github.com/suPer8Hu/chat-studio/internal/chat"
	"github.com/suPer8Hu/chat-studio/internal/config"
	"github.com/suPer8Hu/chat-studio/internal/db"
	"github.com/suPer8Hu/chat-studio/internal/httpapi"
	"github.com/suPer8Hu/chat-studio/internal/observability"
	"github.com/suPer8Hu/chat-studio/internal/store/gormstore"
	"github.com/suPer8Hu/chat-studio/internal/store/memstore"
	"github.com/suPer8Hu/chat-studio/internal/store/rabbitmq"
	"github.com/suPer8Hu/chat-studio/internal/store/redisstore"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.Logger().Fatal("load config", "err", err)
	}
	log := observability.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logs, closeLogs, err := openLogStore(ctx, cfg)
	if err != nil {
		log.Fatal("open log store", "store", cfg.LogStore, "err", err)
	}
	defer closeLogs()

	provider, err := newRegistry(cfg).Get(ctx, cfg.AIProvider, "")
	if err != nil {
		log.Fatal("ai provider", "err", err)
	}

	opts := []chat.Option{chat.WithSendTimeout(cfg.SendTimeout)}
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			log.Fatal("rabbit publisher", "err", err)
		}
		defer pub.Close()
		opts = append(opts, chat.WithNotifier(pub))
		log.Info("publishing chat events", "queue", cfg.RabbitQueue)
	}

	store := chat.NewStore(provider, logs, opts...)
	if err := store.Restore(ctx); err != nil {
		log.Fatal("restore sessions", "err", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server started", "port", cfg.Port, "store", cfg.LogStore, "provider", cfg.AIProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SendTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}

func openLogStore(ctx context.Context, cfg config.Config) (chat.LogStore, func(), error) {
	switch cfg.LogStore {
	case "memory":
		return memstore.New(), func() {}, nil
	case "sqlite", "mysql":
		gdb, err := db.Open(cfg.LogStore, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		s, err := gormstore.New(gdb)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return s, closeFn, nil
	case "redis":
		s, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log store %q", cfg.LogStore)
	}
}

func newRegistry(cfg config.Config) *ai.Registry {
	reg := ai.NewRegistry()

	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		if model == "" {
			model = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, model, cfg.SendTimeout), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		if model == "" {
			model = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, model,
			cfg.OpenRouterSiteURL, cfg.OpenRouterAppName, cfg.SendTimeout), nil
	})
	reg.Register("webhook", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewWebhookProvider(cfg.WebhookURL, cfg.SendTimeout), nil
	})
	reg.Register("fastapi", func(ctx context.Context, model string) (ai.Provider, error) {
		return ai.NewFastAPIProvider(cfg.FastAPIURL, cfg.FastAPIPlatforms, cfg.SendTimeout), nil
	})
	return reg
}
