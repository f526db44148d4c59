package entities

import "strings"

// Part represents one distinct stocked electrical part.
type Part struct {
	Category string
	Name     string
	Voltage  RangeSpec
	Current  RangeSpec
	Quantity int64
	Notes    string
}

// DedupeKey identifies two parts as physically the same item regardless of
// stock count. Quantity and notes are deliberately excluded.
type DedupeKey struct {
	Category string
	Name     string
	Voltage  string
	Current  string
}

// NewPart creates a validated, normalized Part.
func NewPart(
	category, name string,
	voltage, current RangeSpec,
	quantity int64,
	notes string,
) (*Part, error) {
	p := Part{
		Category: category,
		Name:     name,
		Voltage:  voltage,
		Current:  current,
		Quantity: quantity,
		Notes:    notes,
	}.Normalized()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Normalized returns a copy with string fields trimmed and both ranges
// normalized. Idempotent.
func (p Part) Normalized() Part {
	return Part{
		Category: strings.TrimSpace(p.Category),
		Name:     strings.TrimSpace(p.Name),
		Voltage:  p.Voltage.Normalized(),
		Current:  p.Current.Normalized(),
		Quantity: p.Quantity,
		Notes:    strings.TrimSpace(p.Notes),
	}
}

// Validate checks the part invariants in a fixed order: category, name,
// quantity, voltage, current. The receiver is expected to be normalized;
// the first violation found is reported.
func (p Part) Validate() error {
	if p.Category == "" {
		return NewValidationError("category", "category is required")
	}
	if p.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if p.Quantity <= 0 {
		return NewValidationError("quantity", "quantity must be > 0")
	}
	if p.Voltage.Min < 0 || p.Voltage.Max < 0 {
		return NewValidationError("voltage", "voltage cannot be negative")
	}
	if p.Current.Min < 0 || p.Current.Max < 0 {
		return NewValidationError("current", "current cannot be negative")
	}
	return nil
}

// DedupeKey derives the identity tuple from the normalized part.
func (p Part) DedupeKey() DedupeKey {
	n := p.Normalized()
	return DedupeKey{
		Category: strings.ToLower(n.Category),
		Name:     strings.ToLower(n.Name),
		Voltage:  n.Voltage.Key(),
		Current:  n.Current.Key(),
	}
}

// StoredPart is a Part together with its store-assigned id. The id is a
// stable handle and is independent of the dedupe key.
type StoredPart struct {
	ID   int64
	Part Part
}
