// Package store owns the ordered collection of tracked domains and its
// JSON persistence. Index 0 is the current domain (most recently added
// or promoted). All mutations persist before returning.
package store

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
	"github.com/ferrovax/domaintracker/internal/events"
)

type Store struct {
	mu         sync.RWMutex
	log        *zap.Logger
	file       *File
	bus        *events.Bus
	maxDomains int
	version    string
	domains    []*domain.Entity
}

// New loads the persisted list from file. bus may be nil.
func New(file *File, maxDomains int, version string, bus *events.Bus, log *zap.Logger) *Store {
	if maxDomains < 1 {
		maxDomains = 10
	}
	s := &Store{
		log:        log,
		file:       file,
		bus:        bus,
		maxDomains: maxDomains,
		version:    version,
	}
	s.domains = file.Load()
	if len(s.domains) > 0 {
		log.Info("domains_loaded", zap.Int("count", len(s.domains)))
	}
	return s
}

// Add validates and inserts a URL at index 0. If the URL is already
// tracked it is promoted to the front and its added time refreshed.
// Entities beyond the size cap are evicted from the tail.
func (s *Store) Add(rawURL string) (bool, string) {
	if ok, reason := domain.Validate(rawURL); !ok {
		s.log.Warn("domain_rejected", zap.String("url", rawURL), zap.String("reason", reason))
		return false, reason
	}

	entity := domain.New(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, idx := s.locate(entity.URL); existing != nil {
		existing.AddedTime = entity.AddedTime
		s.domains = append(s.domains[:idx], s.domains[idx+1:]...)
		s.domains = append([]*domain.Entity{existing}, s.domains...)
		s.log.Info("domain_promoted", zap.String("url", existing.URL))
	} else {
		s.domains = append([]*domain.Entity{entity}, s.domains...)
		s.log.Info("domain_added", zap.String("url", entity.URL))
	}

	if len(s.domains) > s.maxDomains {
		evicted := s.domains[s.maxDomains:]
		s.domains = s.domains[:s.maxDomains]
		for _, d := range evicted {
			s.log.Info("domain_evicted", zap.String("url", d.URL))
			s.bus.Publish(events.Event{Type: events.TypeDomainRemoved, URL: d.URL, Message: "evicted at capacity"})
		}
	}

	if err := s.file.Save(s.domains); err != nil {
		s.log.Error("domains_save_error", zap.Error(err))
		return false, "failed to persist domain list"
	}
	s.bus.Publish(events.Event{Type: events.TypeDomainAdded, URL: entity.URL})
	return true, "domain added"
}

// Remove deletes the entity with the given URL. If persisting the
// shrunken list fails the entity is restored and Remove reports failure.
func (s *Store) Remove(rawURL string) bool {
	url := domain.Normalize(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	entity, idx := s.locate(url)
	if entity == nil {
		return false
	}
	s.domains = append(s.domains[:idx], s.domains[idx+1:]...)

	if err := s.file.Save(s.domains); err != nil {
		// rollback: put it back where it was
		s.domains = append(s.domains[:idx], append([]*domain.Entity{entity}, s.domains[idx:]...)...)
		s.log.Error("domain_remove_save_error", zap.String("url", url), zap.Error(err))
		return false
	}

	s.log.Info("domain_removed", zap.String("url", url))
	s.bus.Publish(events.Event{Type: events.TypeDomainRemoved, URL: url})
	return true
}

// Find returns a copy of the entity with the given URL, or nil.
func (s *Store) Find(rawURL string) *domain.Entity {
	url := domain.Normalize(rawURL)

	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, _ := s.locate(url)
	if entity == nil {
		return nil
	}
	cp := *entity
	return &cp
}

// All returns copies of every entity in store order.
func (s *Store) All() []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Entity, 0, len(s.domains))
	for _, d := range s.domains {
		out = append(out, *d)
	}
	return out
}

// Current returns a copy of the entity at index 0, or nil when empty.
func (s *Store) Current() *domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.domains) == 0 {
		return nil
	}
	cp := *s.domains[0]
	return &cp
}

// UpdateStatus applies a probe outcome to the named entity and
// persists. Returns false when the entity is unknown or persistence fails.
func (s *Store) UpdateStatus(rawURL string, isActive bool, errMsg string) bool {
	url := domain.Normalize(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	entity, _ := s.locate(url)
	if entity == nil {
		return false
	}
	prev := entity.Status
	entity.UpdateCheckResult(isActive, errMsg)

	if err := s.file.Save(s.domains); err != nil {
		s.log.Error("domain_status_save_error", zap.String("url", url), zap.Error(err))
		return false
	}
	if entity.Status != prev {
		s.bus.Publish(events.Event{
			Type:    events.TypeStatusChanged,
			URL:     url,
			Status:  entity.Status,
			Message: errMsg,
		})
	}
	return true
}

// CleanupInvalid removes every entity whose consecutive error count has
// reached the threshold, returning the removed URLs.
func (s *Store) CleanupInvalid(maxErrorCount int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	kept := s.domains[:0]
	for _, d := range s.domains {
		if d.ErrorCount >= maxErrorCount {
			removed = append(removed, d.URL)
			continue
		}
		kept = append(kept, d)
	}
	if len(removed) == 0 {
		return nil
	}
	s.domains = kept

	if err := s.file.Save(s.domains); err != nil {
		s.log.Error("domains_cleanup_save_error", zap.Error(err))
	}
	s.log.Info("domains_cleaned", zap.Strings("urls", removed))
	for _, url := range removed {
		s.bus.Publish(events.Event{Type: events.TypeDomainRemoved, URL: url, Message: "too many consecutive errors"})
	}
	return removed
}

// SortByPriority reorders the list so healthier and newer domains come
// first: by status rank, then newest added time. Persists the new order.
func (s *Store) SortByPriority() {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(s.domains, func(i, j int) bool {
		a, b := s.domains[i], s.domains[j]
		if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
			return ra < rb
		}
		return a.AddedTime.After(b.AddedTime)
	})

	if err := s.file.Save(s.domains); err != nil {
		s.log.Error("domains_sort_save_error", zap.Error(err))
	}
}

// Statistics counts entities per status.
func (s *Store) Statistics() domain.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.Statistics{Total: len(s.domains)}
	for _, d := range s.domains {
		switch d.Status {
		case domain.StatusActive:
			stats.Active++
		case domain.StatusInactive:
			stats.Inactive++
		case domain.StatusError:
			stats.Error++
		default:
			stats.Unknown++
		}
	}
	return stats
}

// locate must be called with the lock held.
func (s *Store) locate(url string) (*domain.Entity, int) {
	for i, d := range s.domains {
		if d.URL == url {
			return d, i
		}
	}
	return nil, -1
}
