// Package jsonfile persists the parts database as a single JSON file.
//
// Loading is deliberately tolerant: a missing file, invalid JSON, a
// non-object top level, or a missing/malformed parts list all fall back to
// an empty database so a damaged file never blocks the tool from starting.
// Saving rewrites the whole file atomically via a temp file and rename.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/partkeep/partkeep/pkg/domain/repositories"
)

// Store is a file-backed PartRepository.
type Store struct {
	path string
	log  *zap.Logger
}

// New creates a store backed by the JSON file at path. A nil logger is
// replaced with a no-op logger.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Verify interface compliance
var _ repositories.PartRepository = (*Store)(nil)

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// databaseJSON is the on-disk shape. Pointer fields let Load distinguish
// missing from zero-valued.
type databaseJSON struct {
	Version *int                  `json:"version"`
	Parts   []repositories.Record `json:"parts"`
}

// Load reads and decodes the backing file. Structural problems degrade to
// an empty database instead of failing; the reasons are logged at debug
// level only.
func (s *Store) Load() (*repositories.Database, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return repositories.NewDatabase(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}

	var raw databaseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Debug("unreadable database file, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return repositories.NewDatabase(), nil
	}

	db := repositories.NewDatabase()
	if raw.Version != nil {
		db.Version = *raw.Version
	}
	db.Records = raw.Parts
	return db, nil
}

// Save serializes the whole database and replaces the backing file
// atomically. Parent directories are created if absent.
func (s *Store) Save(db *repositories.Database) error {
	records := db.Records
	if records == nil {
		records = []repositories.Record{}
	}
	payload := struct {
		Version int                   `json:"version"`
		Parts   []repositories.Record `json:"parts"`
	}{
		Version: db.Version,
		Parts:   records,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode database: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".inventory-*.json")
	if err != nil {
		return fmt.Errorf("jsonfile: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonfile: replace %s: %w", s.path, err)
	}

	s.log.Debug("database saved",
		zap.String("path", s.path), zap.Int("records", len(records)))
	return nil
}
