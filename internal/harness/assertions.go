package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sieve/internal/compiler"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Clause   string // Clause under test, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	// Header with assertion type
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)

	// Expected vs Actual (most important info)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "  Clause: %q", e.Clause)

	return buf.String()
}

// assertSyntaxError checks the compile outcome. se is nil when the clause
// compiled.
func assertSyntaxError(s *Scenario, se *compiler.SyntaxError) *AssertionError {
	want := s.ExpectError
	switch {
	case want == nil && se == nil:
		return nil
	case want == nil:
		return &AssertionError{
			Type:     "compile",
			Expected: "clause compiles",
			Actual:   se.Error(),
			Clause:   s.Clause,
		}
	case se == nil:
		return &AssertionError{
			Type:     "compile",
			Expected: "syntax error",
			Actual:   "clause compiled",
			Clause:   s.Clause,
		}
	}

	if want.Pos != nil && *want.Pos != se.Pos {
		return &AssertionError{
			Type:     "syntax_error_pos",
			Expected: fmt.Sprintf("position %d", *want.Pos),
			Actual:   fmt.Sprintf("position %d (%s)", se.Pos, se.Message),
			Clause:   s.Clause,
		}
	}
	if want.Message != "" && want.Message != se.Message {
		return &AssertionError{
			Type:     "syntax_error_message",
			Expected: want.Message,
			Actual:   se.Message,
			Clause:   s.Clause,
		}
	}
	return nil
}

// assertUnknown compares reported unknown names with the expectation.
func assertUnknown(s *Scenario, unknown []string) *AssertionError {
	want := slices.Clone(s.ExpectUnknown)
	slices.Sort(want)
	if slices.Equal(want, unknown) {
		return nil
	}
	return &AssertionError{
		Type:     "unknown_fields",
		Expected: formatNames(want),
		Actual:   formatNames(unknown),
		Clause:   s.Clause,
	}
}

// assertRow compares one row outcome with its expectation.
func assertRow(s *Scenario, index int, rc RowCase, got RowOutcome) *AssertionError {
	want := RowOutcome{Index: index, Error: rc.Error}
	if rc.Match != nil {
		want.Match = *rc.Match
	}
	if got.Match == want.Match && got.Error == want.Error {
		return nil
	}
	return &AssertionError{
		Type:     fmt.Sprintf("rows[%d]", index),
		Expected: describe(want),
		Actual:   describe(got),
		Clause:   s.Clause,
	}
}

func describe(o RowOutcome) string {
	if o.Error != "" {
		return "error " + o.Error
	}
	if o.Match {
		return "match"
	}
	return "no match"
}

func formatNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
