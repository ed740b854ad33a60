package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/geodesk/spatial-api/internal/api"
	"github.com/geodesk/spatial-api/internal/auth"
	"github.com/geodesk/spatial-api/internal/config"
	"github.com/geodesk/spatial-api/internal/database"
	"github.com/geodesk/spatial-api/internal/graph"
	"github.com/geodesk/spatial-api/internal/logger"
	"github.com/geodesk/spatial-api/internal/services"
)

func main() {
	_ = godotenv.Load()
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DSN(), cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db)
	pointService := services.NewPointService(db)
	polygonService := services.NewPolygonService(db)

	// Set up the GraphQL surface
	resolver := graph.NewResolver(userService, pointService, polygonService, tokens)
	graphHandler, err := graph.NewHandler(resolver, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build GraphQL schema")
	}

	// Set up router
	router := api.NewRouter(db, tokens, userService, pointService, polygonService, graphHandler)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
