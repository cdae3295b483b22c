package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/akvel/callsig/internal/adapters/http"
	"github.com/akvel/callsig/internal/adapters/relay"
	"github.com/akvel/callsig/internal/app"
	"github.com/akvel/callsig/internal/config"
	"github.com/akvel/callsig/internal/core"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var relayCtl core.RelayControl
	if cfg.RelayURL != "" {
		relayCtl = relay.NewClient(cfg.RelayURL, cfg.RelayTimeout)
		log.Info().Str("relay_url", cfg.RelayURL).Msg("media relay control wired")
	} else {
		relayCtl = relay.Noop{}
		log.Warn().Msg("no relay_url configured, recording confirms locally")
	}

	reg := prometheus.NewRegistry()

	coord := &app.Coordinator{
		Presence:     app.NewPresence(),
		Sessions:     app.NewSessionTable(),
		Relay:        relayCtl,
		Calls:        app.NewCallRateLimiter(cfg.CallLimit, cfg.CallInterval),
		Metrics:      app.NewMetrics(reg),
		RelayTimeout: cfg.RelayTimeout,
	}

	r := router.SetupRouter(ctx, cfg, coord, reg)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("callsig server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
