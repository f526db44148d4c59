package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/partkeep/partkeep/pkg/domain/entities"
)

// prompt asks for a value with no default. The answer is trimmed; an empty
// answer is returned as-is and left to validation.
func (r *REPL) prompt(ctx context.Context, label string) (string, bool) {
	fmt.Fprintf(r.out, "%s: ", label)
	line, ok := r.readLine(ctx)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// promptDefault asks for a value, falling back to def on a blank answer.
func (r *REPL) promptDefault(ctx context.Context, label, def string) (string, bool) {
	fmt.Fprintf(r.out, "%s [%s]: ", label, def)
	line, ok := r.readLine(ctx)
	if !ok {
		return "", false
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, true
	}
	return def, true
}

// promptInt re-asks until it gets a positive integer.
func (r *REPL) promptInt(ctx context.Context, label string, def int64) (int64, bool) {
	for {
		raw, ok := r.promptDefault(ctx, label, strconv.FormatInt(def, 10))
		if !ok {
			return 0, false
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fmt.Fprintln(r.out, "Enter a valid integer.")
			continue
		}
		if n <= 0 {
			fmt.Fprintln(r.out, "Enter a positive integer.")
			continue
		}
		return n, true
	}
}

// promptRange re-asks for a range and unit pair until both parse.
func (r *REPL) promptRange(ctx context.Context, label, defRange, defUnit string) (entities.RangeSpec, bool) {
	for {
		text, ok := r.promptDefault(ctx, label+" range (e.g. 1-24)", defRange)
		if !ok {
			return entities.RangeSpec{}, false
		}
		unit, ok := r.promptDefault(ctx, label+" unit (e.g. V, mA, A)", defUnit)
		if !ok {
			return entities.RangeSpec{}, false
		}
		spec, err := entities.ParseRange(text, unit)
		if err != nil {
			fmt.Fprintf(r.out, "Invalid %s: %v\n", strings.ToLower(label), err)
			continue
		}
		return spec, true
	}
}
