package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/config"
	"github.com/ferrovax/domaintracker/internal/events"
	"github.com/ferrovax/domaintracker/internal/httpapi"
	"github.com/ferrovax/domaintracker/internal/logging"
	"github.com/ferrovax/domaintracker/internal/metrics"
	"github.com/ferrovax/domaintracker/internal/monitor"
	"github.com/ferrovax/domaintracker/internal/netcheck"
	"github.com/ferrovax/domaintracker/internal/notify"
	"github.com/ferrovax/domaintracker/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(logging.Options{
		Dir:        cfg.LogDir(),
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	metrics.Init()

	bus := events.NewBus(256)
	st := store.New(store.NewFile(cfg.DomainsFile(), logger), cfg.MaxDomains, config.AppVersion, bus, logger)
	checker := netcheck.New(netcheck.Options{
		Timeout:      cfg.HTTPTimeout,
		CacheTTL:     cfg.CacheTTL,
		Concurrency:  cfg.Concurrency,
		MaxRetries:   cfg.RetryAttempts,
		RetryBackoff: cfg.RetryBackoff,
		UserAgent:    cfg.UserAgent,
	}, logger)

	mon := monitor.New(st, checker, cfg.CheckInterval, cfg.MaxErrorCount, logger)
	mon.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings := config.LoadSettings(cfg.SettingsFile(), logger)
	sinks := notify.Multi{notify.NewLog(logger)}
	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		sinks = append(sinks, slack)
	}
	alerter := monitor.NewAlerter(st, sinks, monitor.AlerterConfig{
		Enabled:         settings.NotificationsEnabled,
		AlertOnRecovery: cfg.AlertOnRecovery,
		Cooldown:        cfg.AlertCooldown,
		PollInterval:    time.Minute,
	}, logger)
	go alerter.Run(ctx)

	api := httpapi.NewServer(logger, st, checker, mon, bus, cfg)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_serve_error", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("shutdown_signal", zap.String("signal", s.String()))
	case <-ctx.Done():
	}

	// orderly shutdown: stop probing first, then the API; the store has
	// already persisted every mutation
	mon.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api_shutdown_error", zap.Error(err))
	}

	stats := st.Statistics()
	logger.Info("shutdown_complete",
		zap.Int("domains", stats.Total),
		zap.Int("active", stats.Active),
	)
}
