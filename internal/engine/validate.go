package engine

import (
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/sieve/internal/ir"
)

// ValidateOption configures name validation.
type ValidateOption func(*NameValidator)

// WithCaseFold matches field names against the known set without regard
// to case, using Unicode case folding.
func WithCaseFold() ValidateOption {
	return func(v *NameValidator) {
		v.fold = true
	}
}

// NameValidator is a stand-in row that answers every lookup with NULL and
// records the names it does not know. Running a program against it visits
// every Get without needing real data.
type NameValidator struct {
	fold    bool
	caser   cases.Caser
	known   map[string]struct{}
	seen    map[string]struct{}
	unknown []string
}

// NewNameValidator returns a validator for the given known field names.
func NewNameValidator(known []string, opts ...ValidateOption) *NameValidator {
	v := &NameValidator{
		known: make(map[string]struct{}, len(known)),
		seen:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.fold {
		v.caser = cases.Fold()
	}
	for _, name := range known {
		v.known[v.key(name)] = struct{}{}
	}
	return v
}

func (v *NameValidator) key(name string) string {
	if !v.fold {
		return name
	}
	return v.caser.String(name)
}

// Exists always returns true so that every lookup reaches Value.
func (v *NameValidator) Exists(string) bool {
	return true
}

// Known reports whether name is a known field.
func (v *NameValidator) Known(name string) bool {
	_, ok := v.known[v.key(name)]
	return ok
}

// Value records name if it is unknown and returns NULL.
func (v *NameValidator) Value(name string) ir.Value {
	k := v.key(name)
	if _, ok := v.known[k]; ok {
		return ir.Null{}
	}
	if _, ok := v.seen[k]; !ok {
		v.seen[k] = struct{}{}
		v.unknown = append(v.unknown, name)
	}
	return ir.Null{}
}

// Unknown returns the distinct unknown names seen so far, sorted.
func (v *NameValidator) Unknown() []string {
	out := slices.Clone(v.unknown)
	slices.Sort(out)
	return out
}

// Validate runs prog against a NameValidator and returns the sorted,
// distinct field names it references that are not in known. The result is
// empty when every name is known.
//
// Every row lookup yields NULL during validation, so only comparisons
// between two literals of incompatible kinds can fail; that error is
// returned because the clause would fail on every row.
func Validate(prog *ir.Program, known []string, opts ...ValidateOption) ([]string, error) {
	v := NewNameValidator(known, opts...)
	if _, err := Execute(prog, v, NewStack(prog.Len())); err != nil {
		return nil, err
	}
	unknown := v.Unknown()
	slog.Debug("validated program", "known", len(known), "unknown", len(unknown))
	return unknown, nil
}

// FormatUnknown renders unknown names for display:
//
//	Unknown field name: a
//	Unknown field names: a, b, c
//
// It returns "" when names is empty. Names are listed in the given order.
func FormatUnknown(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "Unknown field name: " + names[0]
	}
	return "Unknown field names: " + strings.Join(names, ", ")
}
