package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight/backend/internal/config"
	"github.com/finsight/backend/internal/models"
	"github.com/finsight/backend/internal/router"
	"github.com/finsight/backend/internal/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Create data directory
	err := os.MkdirAll(cfg.DataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	_, err = models.Connect(cfg.DatabasePath())
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Validate already parsed the currency
	currency, _ := scheduler.ParseCurrency(cfg.Currency)

	s := scheduler.New(
		scheduler.NewGormStore(models.DB),
		scheduler.WithStoreTimeout(cfg.StoreTimeout),
		scheduler.WithCurrency(currency),
	)

	timer, err := scheduler.NewTimer(s, cfg.Schedules())
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if cfg.RunOnStart {
		// Errors are logged by the scheduler and retried by the timer
		_, _ = s.RunStartup(context.Background())

		if err := s.DisplayActive(context.Background(), os.Stdout, uuid.Nil); err != nil {
			log.Error().Err(err).Msg("could not display active recurring transactions")
		}
	}

	apiURL, _ := url.Parse(cfg.APIURL)
	r, teardown, err := router.Config(apiURL)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	router.AttachRoutes(r.Group("/"), s)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	timer.Start()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msg(err.Error())
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}

	// Wait for a running pass to finish
	select {
	case <-timer.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("shutdown timeout reached while a pass was running")
	}

	sqlDB, err := models.DB.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}
