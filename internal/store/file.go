package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ferrovax/domaintracker/internal/domain"
)

// File persists the domain list as a UTF-8 JSON array. The store is the
// sole writer of this file.
type File struct {
	path string
	log  *zap.Logger
}

func NewFile(path string, log *zap.Logger) *File {
	return &File{path: path, log: log}
}

func (f *File) Path() string { return f.path }

// Load reads the persisted list. A missing or corrupt file yields an
// empty list rather than an error; a leading byte-order-mark is tolerated.
func (f *File) Load() []*domain.Entity {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.log.Warn("domains_file_read_error", zap.String("path", f.path), zap.Error(err))
		}
		return nil
	}

	// UTF-8 BOM, seen on files edited with some Windows tools.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var out []*domain.Entity
	if err := json.Unmarshal(raw, &out); err != nil {
		f.log.Warn("domains_file_parse_error", zap.String("path", f.path), zap.Error(err))
		return nil
	}
	return out
}

// Save writes the list atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (f *File) Save(entities []*domain.Entity) error {
	if entities == nil {
		entities = []*domain.Entity{}
	}
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".domains-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
