package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
	"github.com/ferrovax/domaintracker/internal/notify"
)

type AlerterConfig struct {
	Enabled         bool
	AlertOnRecovery bool
	Cooldown        time.Duration
	PollInterval    time.Duration
}

// Alerter watches the store for status transitions and pushes
// notifications. Down alerts are rate-limited by a cooldown; recovery
// alerts bypass it. State lives in memory only: a restart simply
// re-learns the current statuses without alerting.
type Alerter struct {
	log      *zap.Logger
	store    DomainStore
	notifier notify.Notifier
	cfg      AlerterConfig

	lastStatus map[string]domain.Status
	lastSent   map[string]time.Time
}

func NewAlerter(store DomainStore, notifier notify.Notifier, cfg AlerterConfig, log *zap.Logger) *Alerter {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Minute
	}
	return &Alerter{
		log:        log,
		store:      store,
		notifier:   notifier,
		cfg:        cfg,
		lastStatus: make(map[string]domain.Status),
		lastSent:   make(map[string]time.Time),
	}
}

// Run polls until ctx is cancelled. The first pass only seeds the
// last-seen state.
func (a *Alerter) Run(ctx context.Context) {
	if !a.cfg.Enabled || a.notifier == nil {
		a.log.Info("alerter_disabled")
		return
	}

	a.seed()
	t := time.NewTicker(a.cfg.PollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("alerter_stopped")
			return
		case <-t.C:
			a.scanOnce(ctx)
		}
	}
}

func (a *Alerter) seed() {
	for _, e := range a.store.All() {
		a.lastStatus[e.URL] = e.Status
	}
}

func (a *Alerter) scanOnce(ctx context.Context) {
	now := time.Now()

	for _, e := range a.store.All() {
		prev, known := a.lastStatus[e.URL]
		a.lastStatus[e.URL] = e.Status
		if !known || prev == e.Status {
			continue
		}

		wentDown := e.Status == domain.StatusError || e.Status == domain.StatusInactive
		recovered := e.Status == domain.StatusActive

		switch {
		case wentDown:
			if sent, ok := a.lastSent[e.URL]; ok && now.Sub(sent) < a.cfg.Cooldown {
				continue
			}
			title := "Domain DOWN"
			text := fmt.Sprintf("URL: %s\nStatus: %s\nErrors: %d\nChecked: %s",
				e.URL, e.Status, e.ErrorCount, checkTime(e))
			if err := a.notifier.Send(ctx, title, text); err != nil {
				a.log.Warn("alert_send_error", zap.String("url", e.URL), zap.Error(err))
				continue
			}
			a.lastSent[e.URL] = now

		case recovered && a.cfg.AlertOnRecovery:
			title := "Domain RECOVERED"
			text := fmt.Sprintf("URL: %s\nChecks: %d\nChecked: %s", e.URL, e.CheckCount, checkTime(e))
			if err := a.notifier.Send(ctx, title, text); err != nil {
				a.log.Warn("alert_send_error", zap.String("url", e.URL), zap.Error(err))
			}
		}
	}
}

func checkTime(e domain.Entity) string {
	if e.LastCheck == nil {
		return "never"
	}
	return e.LastCheck.Format(time.RFC3339)
}
