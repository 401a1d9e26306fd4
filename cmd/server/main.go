package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"seokeys/internal/app"
	"seokeys/internal/config"
	"seokeys/internal/logger"
	"seokeys/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	logger.SetGlobal(logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}))

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize store, extractor and pipeline
	a, err := app.New(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer a.Close()

	// Initialize server
	srv := server.New(cfg, log.Logger, a.Storage)
	srv.RegisterRoutes(server.Deps{
		Pipeline:     a.Pipeline,
		Store:        a.Store,
		StoreBackend: a.StoreBackend(),
		Gatherer:     a.Registry,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
