package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	config, err := loadConfig(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		setupLogging("info", "console")
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(config.LogLevel, config.LogFormat)

	if envErr != nil {
		log.Debug().Err(envErr).Msg("could not load .env file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := setupServices(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup services")
	}
	defer services.Close()

	server, err := setupServer(config, services)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup server")
	}

	log.Info().
		Str("source", services.Source.Name()).
		Dur("poll_interval", config.Feed.PollInterval).
		Str("port", config.Port).
		Msg("starting scoreboard server")

	done := make(chan struct{})
	go func() {
		defer close(done)
		services.Run(ctx)
	}()

	// Start HTTP server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Stop feed, clock and gateway
	cancel()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("services did not stop in time")
	}

	log.Info().Msg("scoreboard server shutdown complete")
}
