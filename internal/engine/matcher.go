package engine

import (
	"fmt"
	"sync"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/ir"
)

// Matcher evaluates one compiled clause against many rows.
//
// The program is compiled once and never mutated. Each Match borrows an
// evaluation stack from a pool, so a Matcher is safe for concurrent use.
type Matcher struct {
	clause string
	prog   *ir.Program
	stacks sync.Pool
}

// Compile compiles clause and returns a Matcher for it. Syntax errors are
// returned as *compiler.SyntaxError.
func Compile(clause string) (*Matcher, error) {
	prog, err := compiler.Compile(clause)
	if err != nil {
		return nil, err
	}
	m := NewMatcher(prog)
	m.clause = clause
	return m, nil
}

// NewMatcher returns a Matcher for an already compiled program.
func NewMatcher(prog *ir.Program) *Matcher {
	m := &Matcher{prog: prog}
	size := prog.Len()
	m.stacks.New = func() any {
		return NewStack(size)
	}
	return m
}

// Clause returns the source text, or "" if the Matcher was built from a
// program.
func (m *Matcher) Clause() string {
	return m.clause
}

// Program returns the compiled program.
func (m *Matcher) Program() *ir.Program {
	return m.prog
}

// Fingerprint returns the content hash of the compiled program.
func (m *Matcher) Fingerprint() (string, error) {
	return m.prog.Fingerprint()
}

// Fields returns the field names the clause references, in order of first
// reference.
func (m *Matcher) Fields() []string {
	return compiler.Fields(m.prog)
}

// Match reports whether row satisfies the clause.
func (m *Matcher) Match(row NamedValues) (bool, error) {
	stack := m.stacks.Get().(*Stack)
	defer m.stacks.Put(stack)
	return Execute(m.prog, row, stack)
}

// MatchWith is like Match but evaluates on a caller-supplied stack.
func (m *Matcher) MatchWith(row NamedValues, stack *Stack) (bool, error) {
	return Execute(m.prog, row, stack)
}

// Filter returns the indexes of rows that match, in order. It stops at the
// first evaluation error.
func (m *Matcher) Filter(rows []NamedValues) ([]int, error) {
	stack := m.stacks.Get().(*Stack)
	defer m.stacks.Put(stack)

	var matched []int
	for i, row := range rows {
		ok, err := Execute(m.prog, row, stack)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if ok {
			matched = append(matched, i)
		}
	}
	return matched, nil
}

// Validate returns the sorted unknown field names referenced by the
// clause. See the package-level Validate.
func (m *Matcher) Validate(known []string, opts ...ValidateOption) ([]string, error) {
	return Validate(m.prog, known, opts...)
}
