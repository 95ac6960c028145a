package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vfcarvalho/meu-treino/internal/api"
	"vfcarvalho/meu-treino/internal/config"
	"vfcarvalho/meu-treino/internal/identity"
	mongorepo "vfcarvalho/meu-treino/internal/repository/mongo"
	"vfcarvalho/meu-treino/internal/service"
	"vfcarvalho/meu-treino/internal/session"
	"vfcarvalho/meu-treino/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// --- Configuration ---
	// Missing secrets (identity API key, database URI) are fatal here;
	// the process never starts half-configured.
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	log.Info().Msg("configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Str("database", cfg.Database.Name).Msg("database connection established")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := mongorepo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises")); err != nil {
			log.Warn().Err(err).Msg("failed to create exercise indexes")
		}
	}()

	// --- Optional Video Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.VideoStorageEnabled() {
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize video storage")
		}
	} else {
		log.Info().Msg("video storage not configured, uploads disabled")
	}

	// --- Repositories / Sessions / Services ---
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	exerciseRepo := mongorepo.NewMongoExerciseRepository(appDB)

	sessions := session.NewManager(cfg.Session.TTL)
	defer sessions.Close()

	idClient := identity.NewClient(cfg.Identity)
	authService := service.NewAuthService(idClient, sessions)
	userService := service.NewUserService(userRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)

	// --- HTTP ---
	router := gin.Default() // includes logger and recovery middleware
	api.SetupRoutes(router, cfg.Session.CookieName, authService, userService, exerciseService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen and serve error")
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
