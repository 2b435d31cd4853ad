package rows

import (
	"slices"

	"github.com/roach88/sieve/internal/ir"
)

type field struct {
	name  string
	value ir.Value
}

// MapRow is a row of named values held in memory.
type MapRow struct {
	fields map[string]field
}

// NewMapRow returns a row holding values. Each value is classified with
// ir.FromAny. If two keys differ only in case the later one in iteration
// order wins, so callers should not rely on it.
func NewMapRow(values map[string]any) *MapRow {
	r := &MapRow{fields: make(map[string]field, len(values))}
	for name, v := range values {
		r.Set(name, v)
	}
	return r
}

// Set stores v under name, replacing any field with the same folded name.
func (r *MapRow) Set(name string, v any) {
	if r.fields == nil {
		r.fields = make(map[string]field)
	}
	r.fields[foldName(name)] = field{name: name, value: ir.FromAny(v)}
}

// Exists reports whether the row has a field called name.
func (r *MapRow) Exists(name string) bool {
	_, ok := r.fields[foldName(name)]
	return ok
}

// Value returns the value of field name, or nil if there is none.
func (r *MapRow) Value(name string) ir.Value {
	f, ok := r.fields[foldName(name)]
	if !ok {
		return nil
	}
	return f.value
}

// Len returns the number of fields.
func (r *MapRow) Len() int {
	return len(r.fields)
}

// Names returns the field names as they were set, sorted.
func (r *MapRow) Names() []string {
	names := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		names = append(names, f.name)
	}
	slices.Sort(names)
	return names
}

// Map returns the row as plain Go values keyed by the original names.
func (r *MapRow) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		out[f.name] = ir.ToAny(f.value)
	}
	return out
}
