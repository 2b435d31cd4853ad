package compiler

import (
	"errors"
	"fmt"
)

// SyntaxError reports malformed clause text. It is only ever returned at
// compile time; a clause that fails to compile has no program.
type SyntaxError struct {
	// Message describes the problem, usually as "expected X but found Y".
	Message string

	// Pos is the character (rune) offset in the clause at which the
	// problem was detected.
	Pos int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (near position %d)", e.Message, e.Pos)
}

// IsSyntaxError reports whether err is or wraps a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
