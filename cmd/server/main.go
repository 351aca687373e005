package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/platform-ops/nr-user-mgmt/internal/application"
	"github.com/platform-ops/nr-user-mgmt/internal/config"
	"github.com/platform-ops/nr-user-mgmt/internal/infrastructure/azuread"
	"github.com/platform-ops/nr-user-mgmt/internal/infrastructure/insights"
	"github.com/platform-ops/nr-user-mgmt/internal/infrastructure/nerdgraph"
	"github.com/platform-ops/nr-user-mgmt/internal/kafka"
	transporthttp "github.com/platform-ops/nr-user-mgmt/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting nr-user-mgmt")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Pipeline clients ─────────────────────────────────────────────────────
	tokens := azuread.NewTokenClient(cfg.Azure)
	graph := azuread.NewGraphClient(cfg.Azure)
	platform := nerdgraph.New(cfg.NewRelic)

	svc := application.NewService(tokens, graph, platform, platform, cfg.Webhook.SSOGroup)

	// ── Kafka consumer reporter (optional) ───────────────────────────────────
	var reporter *application.Reporter
	if len(cfg.Kafka.Brokers) > 0 {
		inspector, err := kafka.NewInspector(cfg.Kafka.Brokers, cfg.Kafka.GroupName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka inspector")
		}
		defer inspector.Close()

		reporter = application.NewReporter(inspector, insights.New(cfg.NewRelic))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("group", cfg.Kafka.GroupName).Msg("kafka reporter enabled")

		if cfg.Kafka.ReportIntervalMinutes > 0 {
			go func() {
				ticker := time.NewTicker(time.Duration(cfg.Kafka.ReportIntervalMinutes) * time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if _, err := reporter.Report(context.Background()); err != nil {
							log.Error().Err(err).Msg("scheduled consumer report failed")
						}
					case <-ctx.Done():
						return
					}
				}
			}()
		}
	}

	// ── HTTP Server ──────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(svc, reporter)
	router := transporthttp.NewRouter(handler, cfg.Webhook.Audience)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("nr-user-mgmt stopped")
}
