package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/billops/backoffice/internal/api/ws"
	"github.com/billops/backoffice/internal/billing"
	"github.com/billops/backoffice/internal/clients/fiscal"
	"github.com/billops/backoffice/internal/config"
	"github.com/billops/backoffice/internal/issuer"
	"github.com/billops/backoffice/internal/notify"
	"github.com/billops/backoffice/internal/scheduler"
	"github.com/billops/backoffice/internal/server"
	"github.com/billops/backoffice/internal/store/postgres"
	redisstore "github.com/billops/backoffice/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("BACKOFFICE_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("BACKOFFICE_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked in config validation
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Run observers: history table, event bus, optional Slack alerts.
	observers := []scheduler.RunObserver{
		notify.NewHistoryRecorder(store.JobRuns(), log.Logger),
		notify.NewEventPublisher(pubsub, log.Logger),
	}
	if cfg.Slack.BotToken != "" {
		slackClient := slacklib.New(cfg.Slack.BotToken)
		observers = append(observers, notify.NewSlackNotifier(slackClient, cfg.Slack.Channel, log.Logger))
		log.Info().Str("channel", cfg.Slack.Channel).Msg("Slack failure alerts enabled")
	}

	// Scheduler with both recurring jobs.
	sched := scheduler.New(cfg.Scheduler.Location(), log.Logger, observers...)

	generator := billing.NewGenerator(store.Clients(), store.ObligationTypes(), store.Obligations(), log.Logger)
	if err = sched.Register(generator.Name(), cfg.Scheduler.GenerationSpec, generator.Run); err != nil {
		return err
	}

	sweeper := billing.NewSweeper(store.Accounts(), log.Logger)
	if err = sched.Register(sweeper.Name(), cfg.Scheduler.SweepSpec, sweeper.Run); err != nil {
		return err
	}

	// Credential issuer path, when configured.
	deps := server.Deps{
		Store:  store,
		Runner: sched,
		Hub:    ws.NewHub(pubsub),
	}
	if cfg.Issuer.Enabled() {
		issuerClient := issuer.NewClient(cfg.Issuer.TokenURL, cfg.Issuer.ClientID, cfg.Issuer.ClientSecret)
		creds := issuer.NewCache(issuerClient.Exchange, cfg.Issuer.CredentialTTL, nil)
		deps.Docs = fiscal.New(cfg.Issuer.DocumentURL, creds)
		log.Info().Msg("credential issuer enabled")
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, deps)

	sched.Start()
	defer sched.Stop()

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
