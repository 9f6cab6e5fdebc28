package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
)

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) Send(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingNotifier) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

func newTestAlerter(store DomainStore, n *recordingNotifier, cfg AlerterConfig) *Alerter {
	cfg.Enabled = true
	return NewAlerter(store, n, cfg, zap.NewNop())
}

func TestAlerter_AlertsOnTransitionToDown(t *testing.T) {
	store := &fakeStore{entities: []domain.Entity{{URL: "https://a.example", Status: domain.StatusActive}}}
	n := &recordingNotifier{}
	a := newTestAlerter(store, n, AlerterConfig{Cooldown: time.Hour})

	a.seed()
	a.scanOnce(context.Background())
	if len(n.sent()) != 0 {
		t.Fatalf("no transition, no alert; got %v", n.sent())
	}

	store.entities[0].Status = domain.StatusError
	a.scanOnce(context.Background())
	if got := n.sent(); len(got) != 1 || got[0] != "Domain DOWN" {
		t.Fatalf("want one down alert, got %v", got)
	}
}

func TestAlerter_CooldownSuppressesRepeats(t *testing.T) {
	store := &fakeStore{entities: []domain.Entity{{URL: "https://a.example", Status: domain.StatusActive}}}
	n := &recordingNotifier{}
	a := newTestAlerter(store, n, AlerterConfig{Cooldown: time.Hour})
	a.seed()

	store.entities[0].Status = domain.StatusError
	a.scanOnce(context.Background())
	store.entities[0].Status = domain.StatusActive
	a.scanOnce(context.Background()) // recovery disabled, records state only
	store.entities[0].Status = domain.StatusError
	a.scanOnce(context.Background()) // back down inside cooldown

	if got := n.sent(); len(got) != 1 {
		t.Fatalf("repeat down inside cooldown must be suppressed, got %v", got)
	}
}

func TestAlerter_RecoveryAlertOptIn(t *testing.T) {
	store := &fakeStore{entities: []domain.Entity{{URL: "https://a.example", Status: domain.StatusError}}}
	n := &recordingNotifier{}
	a := newTestAlerter(store, n, AlerterConfig{AlertOnRecovery: true, Cooldown: time.Hour})
	a.seed()

	store.entities[0].Status = domain.StatusActive
	a.scanOnce(context.Background())
	if got := n.sent(); len(got) != 1 || got[0] != "Domain RECOVERED" {
		t.Fatalf("want recovery alert, got %v", got)
	}
}

func TestAlerter_NewDomainDoesNotAlert(t *testing.T) {
	store := &fakeStore{}
	n := &recordingNotifier{}
	a := newTestAlerter(store, n, AlerterConfig{})
	a.seed()

	store.entities = append(store.entities, domain.Entity{URL: "https://new.example", Status: domain.StatusError})
	a.scanOnce(context.Background())
	if len(n.sent()) != 0 {
		t.Fatalf("first sighting of a domain must not alert, got %v", n.sent())
	}
}
