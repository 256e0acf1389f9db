package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shubham-Rasal/anp-chat/internal/agents"
	"github.com/Shubham-Rasal/anp-chat/internal/api"
	"github.com/Shubham-Rasal/anp-chat/internal/archive"
	"github.com/Shubham-Rasal/anp-chat/internal/chat"
	"github.com/Shubham-Rasal/anp-chat/internal/config"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shubham-Rasal/anp-chat/internal/taskrouter"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("backend", cfg.Storage.Backend).
		Msg("Starting ANP chat server")

	// Initialize session store backend
	kv, rateLimiter, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer kv.Close()

	sessions := store.NewSessionStore(kv)
	registry := agents.NewRegistry()
	ops := chat.NewOperationLog()

	// Restore the last active conversation
	ctrl := chat.NewController(sessions)
	ctrl.Restore(context.Background())

	// Task pipeline
	router := taskrouter.NewHTTPClient(cfg.Router.Endpoint, cfg.Router.Timeout)
	delays := chat.Delays{
		Thought: cfg.Pipeline.ThoughtDelay,
		Working: cfg.Pipeline.WorkingDelay,
		Result:  cfg.Pipeline.ResultDelay,
	}
	pipeline := chat.NewPipeline(ctrl, router, registry, ops, clockwork.NewRealClock(), delays, cfg.Router.AuthToken)

	// Remote archive
	archiveClient := archive.NewStorachaClient(cfg.Archive.Gateway, cfg.Archive.Token, cfg.Archive.Space, cfg.Archive.Timeout)
	reconciler := archive.NewReconciler(sessions, archiveClient, ops, ctrl)

	// HTTP router
	handler := api.NewRouter(api.Deps{
		Config:      cfg,
		KV:          kv,
		Controller:  ctrl,
		Pipeline:    pipeline,
		Operations:  ops,
		Registry:    registry,
		Reconciler:  reconciler,
		Archive:     archiveClient,
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// setupLogger configures the global zerolog logger from config
func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.File != "" {
		writer, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open log file, logging to stderr")
			return
		}
		log.Logger = log.Output(writer)
		return
	}

	if cfg.Format == "console" || os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openStore selects the session store backend. The rate limiter is only
// available on the Redis backend.
func openStore(cfg *config.Config) (store.KV, *store.RateLimiter, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemoryKV(), nil, nil
	case "sqlite":
		kv, err := store.NewSQLiteKV(cfg.Storage.SQLite.Path)
		return kv, nil, err
	case "postgres":
		kv, err := store.NewPostgresKV(context.Background(), cfg.Storage.Postgres.DSN(),
			cfg.Storage.Postgres.MaxConns, cfg.Storage.Postgres.MinConns)
		return kv, nil, err
	case "redis":
		kv, err := store.NewRedisKV(cfg.Storage.Redis.Addr(), cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		limiter := store.NewRateLimiter(kv.Client(),
			cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
		return kv, limiter, nil
	case "mongodb":
		kv, err := store.NewMongoKV(context.Background(), cfg.Storage.Mongo.URI,
			cfg.Storage.Mongo.Database, cfg.Storage.Mongo.Collection)
		return kv, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
