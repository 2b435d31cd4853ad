// Package sieve compiles SQL-style WHERE clauses into flat programs and
// evaluates them against rows.
//
//	m, err := sieve.Compile("QTY > 2 AND SKU IN ('a', 'b')")
//	if err != nil {
//		return err // *sieve.SyntaxError
//	}
//	ok, err := m.Match(sieve.NewMapRow(map[string]any{"qty": 3, "sku": "a"}))
//
// A compiled Matcher is immutable and safe for concurrent use. Rows are
// anything that implements NamedValues; MapRow is a case-insensitive
// adapter over a Go map.
package sieve

import (
	"strconv"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/rows"
)

type (
	// Matcher evaluates one compiled clause.
	Matcher = engine.Matcher

	// NamedValues is a row: field existence and lookup by name.
	NamedValues = engine.NamedValues

	// MapRow is a NamedValues over a map with case-insensitive names.
	MapRow = rows.MapRow

	// SyntaxError is returned by Compile for malformed clauses.
	SyntaxError = compiler.SyntaxError

	// EvalError is returned by Match when a row cannot be evaluated.
	EvalError = engine.EvalError

	// ValidateOption configures Matcher.Validate.
	ValidateOption = engine.ValidateOption
)

// Compile parses clause. An empty clause matches every row.
func Compile(clause string) (*Matcher, error) {
	return engine.Compile(clause)
}

// MustCompile is like Compile but panics on a syntax error.
func MustCompile(clause string) *Matcher {
	m, err := engine.Compile(clause)
	if err != nil {
		panic("sieve: Compile(" + strconv.Quote(clause) + "): " + err.Error())
	}
	return m
}

// NewMapRow returns a row holding values.
func NewMapRow(values map[string]any) *MapRow {
	return rows.NewMapRow(values)
}

// WithCaseFold makes Validate match field names without regard to case.
func WithCaseFold() ValidateOption {
	return engine.WithCaseFold()
}

// FormatUnknown renders the names returned by Validate as a message.
func FormatUnknown(names []string) string {
	return engine.FormatUnknown(names)
}

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	return compiler.IsSyntaxError(err)
}

// IsTypeMismatch reports whether err is an evaluation error caused by
// comparing values of incompatible types.
func IsTypeMismatch(err error) bool {
	return engine.IsTypeMismatch(err)
}
