package api

import (
	"net/http"

	"github.com/Shubham-Rasal/anp-chat/internal/agents"
	"github.com/Shubham-Rasal/anp-chat/internal/api/handler"
	customMiddleware "github.com/Shubham-Rasal/anp-chat/internal/api/middleware"
	"github.com/Shubham-Rasal/anp-chat/internal/archive"
	"github.com/Shubham-Rasal/anp-chat/internal/chat"
	"github.com/Shubham-Rasal/anp-chat/internal/config"
	"github.com/Shubham-Rasal/anp-chat/internal/security"
	"github.com/Shubham-Rasal/anp-chat/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Deps collects the wired application components the router exposes
type Deps struct {
	Config      *config.Config
	KV          store.KV
	Controller  *chat.Controller
	Pipeline    *chat.Pipeline
	Operations  *chat.OperationLog
	Registry    *agents.Registry
	Reconciler  *archive.Reconciler
	Archive     archive.Client
	RateLimiter *store.RateLimiter
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	chatHandler := handler.NewChatHandler(deps.Pipeline, deps.Controller)
	sessionHandler := handler.NewSessionHandler(deps.Controller)
	archiveHandler := handler.NewArchiveHandler(deps.Reconciler, deps.Archive)
	operationsHandler := handler.NewOperationsHandler(deps.Operations)
	agentsHandler := handler.NewAgentsHandler(deps.Registry)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.KV))

		// Protected routes
		r.Group(func(r chi.Router) {
			if cfg.Auth.JWTSecret != "" {
				jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
				r.Use(customMiddleware.NewAuthMiddleware(jwtManager).Authenticate)
			} else {
				log.Warn().Msg("JWT secret not configured, API is unauthenticated")
			}
			if deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			}

			// Active conversation
			r.Route("/chat", func(r chi.Router) {
				r.Get("/", chatHandler.Get)
				r.Post("/query", chatHandler.Query)
			})

			// Chat history
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.New)
				r.Post("/{sessionID}/select", sessionHandler.Select)
				r.Delete("/{sessionID}", sessionHandler.Delete)
			})

			// Remote archive
			r.Route("/archive", func(r chi.Router) {
				r.Get("/items", archiveHandler.ListItems)
				r.Get("/unsynced", archiveHandler.ListUnsynced)
				r.Post("/sync", archiveHandler.Sync)
				r.Post("/save", archiveHandler.Save)
				r.Post("/items/{itemID}/load", archiveHandler.Load)
			})

			// Storage operation log
			r.Get("/operations", operationsHandler.List)

			// Agent roster
			r.Get("/agents", agentsHandler.List)
			r.Get("/examples", agentsHandler.Examples)
		})
	})

	return r
}
