// Package events carries state-change notifications from the core to
// the presentation layer. The presentation loop polls and drains the
// queue instead of being called into from worker goroutines.
package events

import (
	"sync"
	"time"

	"github.com/ferrovax/domaintracker/internal/domain"
)

type Type string

const (
	TypeDomainAdded   Type = "domain_added"
	TypeDomainRemoved Type = "domain_removed"
	TypeStatusChanged Type = "status_changed"
	TypeCheckComplete Type = "check_complete"
)

type Event struct {
	Type    Type          `json:"type"`
	URL     string        `json:"url,omitempty"`
	Status  domain.Status `json:"status,omitempty"`
	Message string        `json:"message,omitempty"`
	Time    time.Time     `json:"time"`
}

// Bus is a bounded in-memory event queue. Publish never blocks; when
// the queue is full the oldest event is dropped.
type Bus struct {
	mu  sync.Mutex
	buf []Event
	max int
}

func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = 64
	}
	return &Bus{max: capacity}
}

func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buf) >= b.max {
		b.buf = b.buf[1:]
	}
	b.buf = append(b.buf, ev)
}

// Drain returns all queued events and empties the queue.
func (b *Bus) Drain() []Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.buf
	b.buf = nil
	return out
}

// Len reports the number of queued events.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}
