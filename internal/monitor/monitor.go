// Package monitor runs the periodic background check loop. The monitor
// is a two-state machine (stopped, running): Start spawns the loop
// goroutine, Stop signals it and waits a bounded time for it to exit.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
	"github.com/ferrovax/domaintracker/internal/metrics"
	"github.com/ferrovax/domaintracker/internal/netcheck"
)

// DomainStore is the slice of the store the monitor drives.
type DomainStore interface {
	All() []domain.Entity
	UpdateStatus(url string, isActive bool, errMsg string) bool
	CleanupInvalid(maxErrorCount int) []string
	SortByPriority()
}

// Prober is the slice of the network checker the monitor drives.
type Prober interface {
	CheckMany(ctx context.Context, entities []domain.Entity) map[string]netcheck.ManyResult
	PurgeCache() int
}

type Monitor struct {
	log           *zap.Logger
	store         DomainStore
	prober        Prober
	interval      time.Duration
	errorBackoff  time.Duration
	joinTimeout   time.Duration
	maxErrorCount int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(store DomainStore, prober Prober, interval time.Duration, maxErrorCount int, log *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if maxErrorCount < 1 {
		maxErrorCount = 5
	}
	return &Monitor{
		log:           log,
		store:         store,
		prober:        prober,
		interval:      interval,
		errorBackoff:  time.Minute,
		joinTimeout:   5 * time.Second,
		maxErrorCount: maxErrorCount,
	}
}

// Start transitions stopped → running. Calling Start on a running
// monitor is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true
	go m.loop(ctx, m.done)
	m.log.Info("monitor_started", zap.Duration("interval", m.interval))
}

// Stop transitions running → stopped: signal the loop, then wait up to
// the join timeout. In-flight probes finish or time out on their own.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.cancel()
	select {
	case <-m.done:
	case <-time.After(m.joinTimeout):
		m.log.Warn("monitor_stop_timeout")
	}
	m.running = false
	m.log.Info("monitor_stopped")
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		wait := m.interval
		if err := m.runOnce(ctx); err != nil {
			m.log.Error("monitor_iteration_error", zap.Error(err))
			metrics.MonitorIterations.WithLabelValues("error").Inc()
			wait = m.errorBackoff
		} else {
			metrics.MonitorIterations.WithLabelValues("ok").Inc()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// runOnce performs one monitoring pass. A panic anywhere inside is
// turned into an error so a single bad pass can never kill the loop.
func (m *Monitor) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = multierr.Append(err, fmt.Errorf("monitor pass panic: %v", r))
		}
	}()
	defer m.prober.PurgeCache()

	entities := m.store.All()
	if len(entities) == 0 {
		return nil
	}
	m.log.Info("monitor_pass", zap.Int("domains", len(entities)))

	// probes never inherit the stop signal: in-flight requests finish
	// or hit their own client timeout
	results := m.prober.CheckMany(context.WithoutCancel(ctx), entities)

	// a stop that arrived mid-pass discards the pass; nothing is
	// recorded against any domain
	if ctx.Err() != nil {
		m.log.Info("monitor_pass_discarded", zap.Int("domains", len(entities)))
		return err
	}

	// results are applied sequentially from this goroutine; the
	// store stays the single writer of its file
	for _, e := range entities {
		res, ok := results[e.URL]
		if !ok {
			continue
		}
		errMsg := ""
		if !res.Accessible {
			errMsg = res.Message
		}
		if !m.store.UpdateStatus(e.URL, res.Accessible, errMsg) {
			err = multierr.Append(err, fmt.Errorf("update status of %s failed", e.URL))
		}
	}

	if removed := m.store.CleanupInvalid(m.maxErrorCount); len(removed) > 0 {
		m.log.Info("monitor_cleanup", zap.Strings("removed", removed))
	}
	m.store.SortByPriority()
	return err
}
