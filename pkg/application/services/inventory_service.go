// Package services implements the inventory state transitions over a
// PartRepository.
//
// Every operation reloads the database from the repository before acting,
// so edits made to the backing file between commands are always observed.
// Mutating operations apply a single in-memory change and save
// synchronously before returning.
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/partkeep/partkeep/pkg/domain/entities"
	"github.com/partkeep/partkeep/pkg/domain/repositories"
)

// InventoryService provides the add/list/search/show/remove/edit operations.
type InventoryService struct {
	repo repositories.PartRepository
	log  *zap.Logger
}

// NewInventoryService creates a service over the given repository. A nil
// logger is replaced with a no-op logger.
func NewInventoryService(repo repositories.PartRepository, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{repo: repo, log: log}
}

// AddResult reports the outcome of Add.
type AddResult struct {
	ID       int64
	Quantity int64
	Merged   bool
}

// Add validates the candidate part and either merges it into an existing
// record with the same dedupe key (summing quantities) or appends it with a
// freshly assigned id.
func (s *InventoryService) Add(p entities.Part) (*AddResult, error) {
	const op = "inventory.Add"

	part := p.Normalized()
	if err := part.Validate(); err != nil {
		return nil, err
	}

	db, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := part.DedupeKey()
	for i := range db.Records {
		existing, err := db.Records[i].Decode()
		if err != nil {
			continue
		}
		if existing.Part.DedupeKey() != key {
			continue
		}
		total := existing.Part.Quantity + part.Quantity
		if err := db.Records[i].SetQuantity(total); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.Save(db); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("merged duplicate part",
			zap.Int64("id", existing.ID),
			zap.String("name", part.Name),
			zap.Int64("quantity", total))
		return &AddResult{ID: existing.ID, Quantity: total, Merged: true}, nil
	}

	id := db.NextID()
	rec, err := repositories.NewRecord(id, part)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.Records = append(db.Records, rec)
	if err := s.repo.Save(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("part added",
		zap.Int64("id", id),
		zap.String("category", part.Category),
		zap.String("name", part.Name),
		zap.Int64("quantity", part.Quantity))
	return &AddResult{ID: id, Quantity: part.Quantity}, nil
}

// List returns decodable parts in storage order, optionally filtered by a
// case-insensitive exact category match. Undecodable records are skipped.
func (s *InventoryService) List(category string) ([]entities.StoredPart, error) {
	const op = "inventory.List"

	db, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.scan(db, category, nil), nil
}

// Search returns parts matching an optional category filter and a set of
// keywords that must all occur (case-insensitive substring) in the part's
// category, name, notes, or formatted ranges. An empty keyword set matches
// everything.
func (s *InventoryService) Search(keywords []string, category string) ([]entities.StoredPart, error) {
	const op = "inventory.Search"

	db, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.scan(db, category, keywords), nil
}

// scan walks the records, skipping undecodable ones, applying the category
// and keyword filters.
func (s *InventoryService) scan(db *repositories.Database, category string, keywords []string) []entities.StoredPart {
	out := []entities.StoredPart{}
	skipped := 0
	for _, rec := range db.Records {
		sp, err := rec.Decode()
		if err != nil {
			skipped++
			continue
		}
		if category != "" && !strings.EqualFold(sp.Part.Category, category) {
			continue
		}
		if !matchesKeywords(sp.Part, keywords) {
			continue
		}
		out = append(out, *sp)
	}
	if skipped > 0 {
		s.log.Debug("skipped undecodable records", zap.Int("count", skipped))
	}
	return out
}

// matchesKeywords reports whether every keyword occurs somewhere in the
// part's searchable text.
func matchesKeywords(p entities.Part, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	hay := strings.ToLower(strings.Join([]string{
		p.Category, p.Name, p.Notes, p.Voltage.Format(), p.Current.Format(),
	}, " "))
	return lo.EveryBy(keywords, func(kw string) bool {
		return strings.Contains(hay, strings.ToLower(kw))
	})
}

// Get looks up a part by id. A missing id is a normal not-found result, not
// an error; so is a record that exists but cannot be decoded.
func (s *InventoryService) Get(id int64) (*entities.StoredPart, bool, error) {
	const op = "inventory.Get"

	db, err := s.repo.Load()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	i := db.IndexByID(id)
	if i < 0 {
		return nil, false, nil
	}
	sp, err := db.Records[i].Decode()
	if err != nil {
		s.log.Debug("record found but undecodable", zap.Int64("id", id), zap.Error(err))
		return nil, false, nil
	}
	return sp, true, nil
}

// RemoveOutcome describes what Remove or Decrement did.
type RemoveOutcome int

const (
	// RemoveNotFound means no record matched the id.
	RemoveNotFound RemoveOutcome = iota
	// RemoveDeleted means the whole record was removed.
	RemoveDeleted
	// RemoveDecremented means the quantity was reduced and the record kept.
	RemoveDecremented
)

// RemoveResult reports the outcome of Remove or Decrement. Quantity is the
// remaining quantity after a decrement.
type RemoveResult struct {
	Outcome  RemoveOutcome
	Quantity int64
}

// Remove deletes the record with the given id outright.
func (s *InventoryService) Remove(id int64) (*RemoveResult, error) {
	const op = "inventory.Remove"

	db, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	i := db.IndexByID(id)
	if i < 0 {
		return &RemoveResult{Outcome: RemoveNotFound}, nil
	}
	db.Records = append(db.Records[:i], db.Records[i+1:]...)
	if err := s.repo.Save(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("part removed", zap.Int64("id", id))
	return &RemoveResult{Outcome: RemoveDeleted}, nil
}

// Decrement subtracts n from the record's quantity. Hitting zero or going
// negative deletes the record; quantity never persists at or below zero.
// n must be positive.
func (s *InventoryService) Decrement(id, n int64) (*RemoveResult, error) {
	const op = "inventory.Decrement"

	if n <= 0 {
		return nil, entities.NewValidationError("decrement", "decrement must be > 0")
	}

	db, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	i := db.IndexByID(id)
	if i < 0 {
		return &RemoveResult{Outcome: RemoveNotFound}, nil
	}

	remaining := db.Records[i].Quantity() - n
	if remaining > 0 {
		if err := db.Records[i].SetQuantity(remaining); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.Save(db); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("part decremented",
			zap.Int64("id", id), zap.Int64("quantity", remaining))
		return &RemoveResult{Outcome: RemoveDecremented, Quantity: remaining}, nil
	}

	db.Records = append(db.Records[:i], db.Records[i+1:]...)
	if err := s.repo.Save(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("part removed after decrement", zap.Int64("id", id))
	return &RemoveResult{Outcome: RemoveDeleted}, nil
}

// Update validates the replacement part and overwrites all part fields of
// the record with the given id. The id itself is preserved. Returns false
// when no record matches.
func (s *InventoryService) Update(id int64, p entities.Part) (bool, error) {
	const op = "inventory.Update"

	part := p.Normalized()
	if err := part.Validate(); err != nil {
		return false, err
	}

	db, err := s.repo.Load()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	i := db.IndexByID(id)
	if i < 0 {
		return false, nil
	}
	if err := db.Records[i].SetPart(part); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.Save(db); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("part updated", zap.Int64("id", id), zap.String("name", part.Name))
	return true, nil
}

// Categories returns the distinct non-empty categories among decodable
// records, trimmed and sorted.
func (s *InventoryService) Categories() ([]string, error) {
	const op = "inventory.Categories"

	db, err := s.repo.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cats := []string{}
	for _, rec := range db.Records {
		sp, err := rec.Decode()
		if err != nil {
			continue
		}
		if c := strings.TrimSpace(sp.Part.Category); c != "" {
			cats = append(cats, c)
		}
	}
	cats = lo.Uniq(cats)
	sort.Strings(cats)
	return cats, nil
}

// Count returns the total number of records, including undecodable ones.
func (s *InventoryService) Count() (int, error) {
	const op = "inventory.Count"

	db, err := s.repo.Load()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(db.Records), nil
}
