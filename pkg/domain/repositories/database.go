package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/partkeep/partkeep/pkg/domain/entities"
)

// CurrentVersion is the schema version stamped on every saved database.
const CurrentVersion = 1

// Database is the persisted collection: a version stamp plus an ordered
// sequence of part records. Records keep their raw JSON so that a record we
// cannot decode still round-trips through save unchanged.
type Database struct {
	Version int
	Records []Record
}

// NewDatabase creates an empty database at the current schema version.
func NewDatabase() *Database {
	return &Database{Version: CurrentVersion}
}

// NextID returns 1 + the maximum existing id. Records with a missing or
// non-numeric id count as 0. Ids are never reused after deletion.
func (db *Database) NextID() int64 {
	var max int64
	for _, rec := range db.Records {
		if id, ok := rec.ID(); ok && id > max {
			max = id
		}
	}
	return max + 1
}

// IndexByID returns the position of the record with the given id, or -1.
// Records whose id cannot be read are skipped, not errors.
func (db *Database) IndexByID(id int64) int {
	for i, rec := range db.Records {
		if got, ok := rec.ID(); ok && got == id {
			return i
		}
	}
	return -1
}

// Record is a single part record held as raw JSON. Typed access goes
// through Decode; mutations rewrite individual fields while preserving any
// fields we do not understand.
type Record struct {
	raw json.RawMessage
}

// NewRecord creates a well-formed record from a normalized part and its
// assigned id.
func NewRecord(id int64, p entities.Part) (Record, error) {
	n := p.Normalized()
	raw, err := json.Marshal(partRecord{
		ID:       id,
		Category: n.Category,
		Name:     n.Name,
		Voltage:  rangeRecord{Min: n.Voltage.Min, Max: n.Voltage.Max, Unit: n.Voltage.Unit},
		Current:  rangeRecord{Min: n.Current.Min, Max: n.Current.Max, Unit: n.Current.Unit},
		Quantity: n.Quantity,
		Notes:    n.Notes,
	})
	if err != nil {
		return Record{}, fmt.Errorf("encode part record: %w", err)
	}
	return Record{raw: raw}, nil
}

// MarshalJSON writes the record's raw bytes unchanged.
func (r Record) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// UnmarshalJSON captures the raw bytes of the record without interpreting
// them.
func (r *Record) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0:0], data...)
	return nil
}

// ID returns the record's id. ok is false when the id is missing or not a
// number; such records are skipped by id lookups and contribute 0 to NextID.
func (r Record) ID() (int64, bool) {
	var probe struct {
		ID *json.Number `json:"id"`
	}
	if err := json.Unmarshal(r.raw, &probe); err != nil || probe.ID == nil {
		return 0, false
	}
	id, err := numberToInt64(*probe.ID)
	if err != nil {
		return 0, false
	}
	return id, true
}

// numberToInt64 coerces a JSON number to int64, truncating a fractional
// part the way the stored data historically allowed.
func numberToInt64(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// Quantity returns the stored quantity, or 0 when it is missing or
// unreadable.
func (r Record) Quantity() int64 {
	var probe struct {
		Quantity *json.Number `json:"quantity"`
	}
	if err := json.Unmarshal(r.raw, &probe); err != nil || probe.Quantity == nil {
		return 0
	}
	q, err := numberToInt64(*probe.Quantity)
	if err != nil {
		return 0
	}
	return q
}

// Decode converts the raw record into a typed StoredPart. A missing
// required field is an error; callers scanning the database skip such
// records rather than failing, and the raw record stays in the store.
func (r Record) Decode() (*entities.StoredPart, error) {
	var probe partProbe
	if err := json.Unmarshal(r.raw, &probe); err != nil {
		return nil, fmt.Errorf("decode part record: %w", err)
	}

	if probe.Category == nil {
		return nil, fmt.Errorf("part record missing %q", "category")
	}
	if probe.Name == nil {
		return nil, fmt.Errorf("part record missing %q", "name")
	}
	if probe.Quantity == nil {
		return nil, fmt.Errorf("part record missing %q", "quantity")
	}
	qty, err := numberToInt64(*probe.Quantity)
	if err != nil {
		return nil, fmt.Errorf("part record quantity: %w", err)
	}
	voltage, err := probe.Voltage.toRange("voltage")
	if err != nil {
		return nil, err
	}
	current, err := probe.Current.toRange("current")
	if err != nil {
		return nil, err
	}

	notes := ""
	if probe.Notes != nil {
		notes = *probe.Notes
	}

	id, _ := r.ID()
	return &entities.StoredPart{
		ID: id,
		Part: entities.Part{
			Category: *probe.Category,
			Name:     *probe.Name,
			Voltage:  voltage,
			Current:  current,
			Quantity: qty,
			Notes:    notes,
		},
	}, nil
}

// SetQuantity rewrites the quantity field in place, preserving every other
// field including ones this version does not know about.
func (r *Record) SetQuantity(q int64) error {
	return r.patch(map[string]any{"quantity": q})
}

// SetPart overwrites all part fields in place. The id and any unknown
// fields are preserved.
func (r *Record) SetPart(p entities.Part) error {
	n := p.Normalized()
	return r.patch(map[string]any{
		"category": n.Category,
		"name":     n.Name,
		"voltage":  map[string]any{"min": n.Voltage.Min, "max": n.Voltage.Max, "unit": n.Voltage.Unit},
		"current":  map[string]any{"min": n.Current.Min, "max": n.Current.Max, "unit": n.Current.Unit},
		"quantity": n.Quantity,
		"notes":    n.Notes,
	})
}

// patch applies field updates through a generic map so unknown fields
// survive the rewrite.
func (r *Record) patch(fields map[string]any) error {
	var m map[string]any
	if err := json.Unmarshal(r.raw, &m); err != nil {
		return fmt.Errorf("decode part record: %w", err)
	}
	for k, v := range fields {
		m[k] = v
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode part record: %w", err)
	}
	r.raw = raw
	return nil
}

// partRecord is the write-side shape of a well-formed record.
type partRecord struct {
	ID       int64       `json:"id"`
	Category string      `json:"category"`
	Name     string      `json:"name"`
	Voltage  rangeRecord `json:"voltage"`
	Current  rangeRecord `json:"current"`
	Quantity int64       `json:"quantity"`
	Notes    string      `json:"notes"`
}

type rangeRecord struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// partProbe is the read-side shape: pointers distinguish a missing field
// from a zero value.
type partProbe struct {
	Category *string      `json:"category"`
	Name     *string      `json:"name"`
	Voltage  *rangeProbe  `json:"voltage"`
	Current  *rangeProbe  `json:"current"`
	Quantity *json.Number `json:"quantity"`
	Notes    *string      `json:"notes"`
}

type rangeProbe struct {
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
	Unit *string  `json:"unit"`
}

func (rp *rangeProbe) toRange(field string) (entities.RangeSpec, error) {
	if rp == nil {
		return entities.RangeSpec{}, fmt.Errorf("part record missing %q", field)
	}
	if rp.Min == nil || rp.Max == nil || rp.Unit == nil {
		return entities.RangeSpec{}, fmt.Errorf("part record has malformed %q", field)
	}
	return entities.RangeSpec{Min: *rp.Min, Max: *rp.Max, Unit: *rp.Unit}, nil
}
