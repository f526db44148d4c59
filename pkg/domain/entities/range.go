package entities

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RangeSpec represents a closed numeric interval [Min, Max] with a unit,
// e.g. an operating voltage of 1-24V. A zero-width range (Min == Max) is a
// single rated value, not an error.
type RangeSpec struct {
	Min  float64
	Max  float64
	Unit string
}

// ParseRange parses text of the form "N" or "N-M" together with a unit into
// a RangeSpec. Whitespace is removed and the text lower-cased before
// parsing. The text is split at the first "-", so a leading minus sign makes
// the lower bound empty and fails the numeric parse; a negative upper bound
// ("5--3") parses here and is rejected later by part validation. Out-of-order
// bounds ("24-1") are accepted and fixed by Normalized.
func ParseRange(text, unit string) (RangeSpec, error) {
	s := strings.ToLower(strings.ReplaceAll(text, " ", ""))
	s = strings.TrimSpace(s)
	if s == "" {
		return RangeSpec{}, NewValidationError("range", "range is empty")
	}
	if strings.TrimSpace(unit) == "" {
		return RangeSpec{}, NewValidationError("unit", "unit is empty")
	}

	var lo, hi float64
	var err error
	if i := strings.Index(s, "-"); i >= 0 {
		lo, err = parseBound(s[:i])
		if err != nil {
			return RangeSpec{}, err
		}
		hi, err = parseBound(s[i+1:])
		if err != nil {
			return RangeSpec{}, err
		}
	} else {
		lo, err = parseBound(s)
		if err != nil {
			return RangeSpec{}, err
		}
		hi = lo
	}

	return RangeSpec{Min: lo, Max: hi, Unit: strings.TrimSpace(unit)}, nil
}

// parseBound parses a single numeric bound.
func parseBound(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, NewValidationError("range", "%q is not a number", s)
	}
	return d.InexactFloat64(), nil
}

// Normalized returns a copy with Min <= Max and the unit trimmed.
// Idempotent; must be applied before comparison, display or key derivation.
func (r RangeSpec) Normalized() RangeSpec {
	lo, hi := r.Min, r.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return RangeSpec{Min: lo, Max: hi, Unit: strings.TrimSpace(r.Unit)}
}

// Format renders the range for display: "5V" for a zero-width range,
// "1-24V" otherwise. Bounds are printed in their shortest round-trip
// decimal form.
func (r RangeSpec) Format() string {
	n := r.Normalized()
	if n.Min == n.Max {
		return formatBound(n.Min) + n.Unit
	}
	return formatBound(n.Min) + "-" + formatBound(n.Max) + n.Unit
}

// Key returns the lower-cased identity form of the range. Unlike Format it
// always uses the "min-max" shape, including for zero-width ranges. Used
// only for dedupe comparison, never shown to the user.
func (r RangeSpec) Key() string {
	n := r.Normalized()
	return strings.ToLower(formatBound(n.Min) + "-" + formatBound(n.Max) + n.Unit)
}

// BoundsText renders just the numeric part of the range, "min-max" or a
// single value. Used for prompt defaults; ParseRange accepts it back.
func (r RangeSpec) BoundsText() string {
	if r.Min == r.Max {
		return formatBound(r.Min)
	}
	return formatBound(r.Min) + "-" + formatBound(r.Max)
}

// formatBound prints a bound without trailing zeros or forced scientific
// notation.
func formatBound(v float64) string {
	return decimal.NewFromFloat(v).String()
}
