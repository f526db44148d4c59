// Package memory provides an in-memory PartRepository, used as an
// ephemeral backend and as a test double for the file-backed store.
package memory

import (
	"encoding/json"
	"fmt"

	"github.com/partkeep/partkeep/pkg/domain/repositories"
)

// PartRepository keeps the database in memory. Load and Save copy through
// JSON so callers get the same snapshot semantics as the file store.
type PartRepository struct {
	snapshot []byte
}

// NewPartRepository creates an empty in-memory repository.
func NewPartRepository() *PartRepository {
	return &PartRepository{}
}

// Verify interface compliance
var _ repositories.PartRepository = (*PartRepository)(nil)

// Load returns a fresh copy of the stored database.
func (r *PartRepository) Load() (*repositories.Database, error) {
	if r.snapshot == nil {
		return repositories.NewDatabase(), nil
	}
	var payload struct {
		Version int                   `json:"version"`
		Parts   []repositories.Record `json:"parts"`
	}
	if err := json.Unmarshal(r.snapshot, &payload); err != nil {
		return nil, fmt.Errorf("memory: decode snapshot: %w", err)
	}
	return &repositories.Database{Version: payload.Version, Records: payload.Parts}, nil
}

// Save replaces the stored database with a copy of db.
func (r *PartRepository) Save(db *repositories.Database) error {
	records := db.Records
	if records == nil {
		records = []repositories.Record{}
	}
	payload := struct {
		Version int                   `json:"version"`
		Parts   []repositories.Record `json:"parts"`
	}{Version: db.Version, Parts: records}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("memory: encode snapshot: %w", err)
	}
	r.snapshot = data
	return nil
}
