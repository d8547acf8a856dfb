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

	"github.com/isdelr/credential-api/internal/api"
	"github.com/isdelr/credential-api/internal/auth"
	"github.com/isdelr/credential-api/internal/config"
	"github.com/isdelr/credential-api/internal/database"
	"github.com/isdelr/credential-api/internal/logger"
	"github.com/isdelr/credential-api/internal/monitoring"
	"github.com/isdelr/credential-api/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	if cfg.JWTSecretGenerated {
		log.Warn().Msg("JWT_SECRET is not set; using a random key, tokens will not survive a restart")
	}
	if cfg.APIKey == "" {
		log.Info().Msg("API_KEY is not set; /secret is disabled")
	}

	// Set up database
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := database.New(connectCtx, cfg.MongoURI)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()
	log.Info().Str("database", cfg.MongoDatabase).Msg("Connected to MongoDB")

	db := client.Database(cfg.MongoDatabase)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	ping := func(ctx context.Context) error { return database.Ping(ctx, client) }

	// Set up services
	eventService := services.NewEventService(database.NewEventRepository(db), cfg.DBTimeout)
	userService, err := services.NewUserService(database.NewUserRepository(db), eventService, auth.DefaultHashParams, cfg.DBTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize user service")
	}

	// Set up and run the background scheduler
	scheduler := monitoring.NewScheduler(eventService, ping, cfg.EventRetention, cfg.DBTimeout)
	if err := scheduler.Register(monitoring.DefaultPruneSpec, monitoring.DefaultHealthSpec); err != nil {
		log.Fatal().Err(err).Msg("Failed to register scheduled jobs")
	}
	scheduler.Run()

	bgCtx, stopBackground := context.WithCancel(context.Background())
	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(bgCtx, time.Minute)

	// Set up router
	router := api.NewRouter(cfg, api.Deps{
		Users:   userService,
		Events:  eventService,
		Tokens:  auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Limiter: limiter,
		Ping:    ping,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopBackground()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
