package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/sieve/internal/ir"
)

// EvalError represents an error detected while evaluating a program.
//
// Evaluation errors are never syntax errors: the clause compiled, but a
// row could not be judged. EvalError includes structured fields for
// diagnostics.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context, such as operand types.
	Details map[string]string
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeTypeMismatch indicates two operands of incompatible kinds were
	// compared. This is a data quality problem in the row or clause.
	ErrCodeTypeMismatch EvalErrorCode = "TYPE_MISMATCH"

	// ErrCodeInternal indicates a virtual machine precondition was violated.
	// Well-formed programs from the compiler never produce it.
	ErrCodeInternal EvalErrorCode = "INTERNAL_INCONSISTENCY"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTypeMismatch returns true if the error is a type mismatch error.
// Uses errors.As to handle wrapped errors.
func IsTypeMismatch(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeTypeMismatch
	}
	return false
}

// IsInternal returns true if the error reports a broken program or stack.
func IsInternal(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeInternal
	}
	return false
}

// NewTypeMismatchError creates an EvalError for operands a and b that
// cannot be compared.
func NewTypeMismatchError(a, b ir.Value, op ir.Opcode) *EvalError {
	left, right := ir.TypeName(a), ir.TypeName(b)
	return &EvalError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("cannot compare %s with %s", left, right),
		Details: map[string]string{
			"left":  left,
			"right": right,
			"op":    op.String(),
		},
	}
}

func internalErrorf(pc int, format string, args ...any) *EvalError {
	return &EvalError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Details: map[string]string{"pc": fmt.Sprintf("%d", pc)},
	}
}
