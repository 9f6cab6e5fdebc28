package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
)

// ExportDocument is the self-describing interchange format for domain
// lists. Import merges its domains into the current store.
type ExportDocument struct {
	ExportTime time.Time       `json:"export_time"`
	AppVersion string          `json:"app_version"`
	Domains    []domain.Entity `json:"domains"`
}

// Export writes the full domain list to path as an ExportDocument.
func (s *Store) Export(path string) error {
	s.mu.RLock()
	doc := ExportDocument{
		ExportTime: time.Now().UTC(),
		AppVersion: s.version,
		Domains:    make([]domain.Entity, 0, len(s.domains)),
	}
	for _, d := range s.domains {
		doc.Domains = append(doc.Domains, *d)
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.log.Error("domains_export_error", zap.String("path", path), zap.Error(err))
		return err
	}
	s.log.Info("domains_exported", zap.String("path", path), zap.Int("count", len(doc.Domains)))
	return nil
}

// Import merges domains from an ExportDocument at path, skipping URLs
// already tracked, then truncates to the size cap. It returns the number
// of domains actually imported.
func (s *Store) Import(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var doc ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse import file: %w", err)
	}
	if doc.Domains == nil {
		return 0, errors.New("import file has no domains section")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imported := 0
	for i := range doc.Domains {
		d := doc.Domains[i]
		d.URL = domain.Normalize(d.URL)
		if d.URL == "" {
			continue
		}
		if existing, _ := s.locate(d.URL); existing != nil {
			continue
		}
		cp := d
		s.domains = append(s.domains, &cp)
		imported++
	}
	if len(s.domains) > s.maxDomains {
		s.domains = s.domains[:s.maxDomains]
	}

	if err := s.file.Save(s.domains); err != nil {
		s.log.Error("domains_import_save_error", zap.Error(err))
		return imported, err
	}
	s.log.Info("domains_imported", zap.String("path", path), zap.Int("count", imported))
	return imported, nil
}
