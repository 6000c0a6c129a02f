package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/WebDev-Insider/movie-api-project-defence/config"
	"github.com/WebDev-Insider/movie-api-project-defence/models"
	"github.com/WebDev-Insider/movie-api-project-defence/routes"
	"github.com/WebDev-Insider/movie-api-project-defence/utils"
)

func main() {
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	if err := db.AutoMigrate(&models.Movie{}); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	if os.Getenv("SEED_SAMPLE_DATA") == "true" {
		if err := utils.SeedSampleMovies(db); err != nil {
			logger.Fatal().Err(err).Msg("seeding failed")
		}
		logger.Info().Msg("sample catalog seeded")
	}

	r := routes.SetupRouter(cfg, db, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info().
			Str("env", cfg.Env).
			Str("addr", srv.Addr).
			Str("base", cfg.APIBasePath).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
