package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/credential-api/internal/api/handlers"
	"github.com/isdelr/credential-api/internal/auth"
	"github.com/isdelr/credential-api/internal/config"
	"github.com/isdelr/credential-api/internal/services"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Users   services.UserServiceProvider
	Events  services.EventServiceProvider
	Tokens  *auth.TokenManager
	Limiter *RateLimiter
	Ping    func(ctx context.Context) error
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	// Forwarded headers are client-controlled unless a proxy rewrites them;
	// otherwise the rate limiter keys on the transport peer address.
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	v := handlers.NewValidator()
	userHandler := handlers.NewUserHandler(deps.Users, deps.Tokens, v, cfg.IsProduction())
	eventHandler := handlers.NewEventHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.Ping, cfg.DBTimeout)

	r.Get("/healthz", healthHandler.Get)
	r.Get("/user", userHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(deps.Limiter.Middleware)
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(deps.Tokens.Middleware())
		r.Get("/me", userHandler.GetMe)
		r.Get("/events", eventHandler.GetRecent)
		// Without a configured key there is nothing to serve.
		if cfg.APIKey != "" {
			r.Get("/secret", handlers.NewSecretHandler(cfg.APIKey).Get)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
