package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cartridge/experience/internal/config"
	"github.com/cartridge/experience/internal/events"
	"github.com/cartridge/experience/internal/health"
	"github.com/cartridge/experience/internal/httpapi"
	"github.com/cartridge/experience/internal/metrics"
	"github.com/cartridge/experience/internal/replay"
	"github.com/cartridge/experience/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	var opts []replay.Option
	if cfg.Buffer.Seed != 0 {
		opts = append(opts, replay.WithRand(rand.New(rand.NewSource(cfg.Buffer.Seed))))
	}
	buf, err := replay.New(cfg.Buffer.Capacity, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create replay buffer")
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("failed to connect to NATS")
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	collector := metrics.NewCollector(logger)
	svc := service.NewReplayService(buf, publisher, collector, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := health.NewWatcher(svc, publisher, health.Config(cfg.Health), logger)
	go watcher.Start(ctx)

	h := httpapi.NewServer(svc, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	done := make(chan struct{})
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Int("capacity", cfg.Buffer.Capacity).
			Msg("replay HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
		close(done)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	<-done
	logger.Info().Msg("replay service stopped")
}
