package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/engine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Negative outcome (no rows matched, unknown fields, scenarios failed, evaluation error)
	ExitCommandError = 2 // Command error (syntax error, missing input, bad flags, etc.)
)

// Error codes reported in CLI responses. Row loading errors carry the
// codes defined by the rows package (E010..E014).
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeSyntax       = "E002" // Clause does not compile
	ErrCodeUnknownField = "E003" // Clause references unknown fields
	ErrCodeTypeMismatch = "E004" // Evaluation failed on a row
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeStore        = "E006" // SQLite source error
	ErrCodeUsage        = "E007" // Invalid flag combination
	ErrCodeNoMatch      = "E008" // No row matched
	ErrCodeInternal     = "E009" // Program broke a VM precondition
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the command already wrote the failure to its
	// output, so the caller need not print it again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// reportedError is WrapExitError for failures the command has already
// written out.
func reportedError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err, Reported: true}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	RunID     string // Copied into trace_id of JSON responses
}

// newFormatter builds the formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		RunID:     opts.RunID,
	}
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // run id of the invocation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	resp.TraceID = f.RunID
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Failure outputs a negative result: the payload is still reported, along
// with an error describing why the command failed. Text output is left to
// the caller.
func (f *OutputFormatter) Failure(code, message string, data any) error {
	if f.Format != "json" {
		return nil
	}
	return f.encode(CLIResponse{
		Status: "error",
		Data:   data,
		Error: &CLIError{
			Code:    code,
			Message: message,
		},
	})
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// SyntaxError reports a clause that failed to compile and returns the
// matching exit error. Text output points at the offending character:
//
//	✗ Syntax error
//	  A = 1 OR
//	          ^
//	  E002: expected expression but found end of input (position 8)
func (f *OutputFormatter) SyntaxError(clause string, se *compiler.SyntaxError) error {
	if f.Format == "json" {
		_ = f.Error(ErrCodeSyntax, se.Message, map[string]any{
			"clause": clause,
			"pos":    se.Pos,
		})
	} else {
		fmt.Fprintln(f.Writer, "✗ Syntax error")
		fmt.Fprintf(f.Writer, "  %s\n", clause)
		fmt.Fprintf(f.Writer, "  %s^\n", strings.Repeat(" ", caretOffset(clause, se.Pos)))
		fmt.Fprintf(f.Writer, "  %s: %s (position %d)\n", ErrCodeSyntax, se.Message, se.Pos)
	}
	return reportedError(ExitCommandError, ErrCodeSyntax, se)
}

// caretOffset clamps a syntax error position to the clause length.
func caretOffset(clause string, pos int) int {
	n := len([]rune(clause))
	if pos > n {
		return n
	}
	if pos < 0 {
		return 0
	}
	return pos
}

// compileError reports a failed Compile through f.
func compileError(f *OutputFormatter, clause string, err error) error {
	var se *compiler.SyntaxError
	if errors.As(err, &se) {
		return f.SyntaxError(clause, se)
	}
	_ = f.Error(ErrCodeGeneric, err.Error(), nil)
	return reportedError(ExitCommandError, ErrCodeGeneric, err)
}

// evalError reports a failed evaluation through f. A type mismatch is a
// property of the data and exits with ExitFailure. An internal
// inconsistency means the compiled program itself is broken; it is logged
// at error level and exits with ExitCommandError.
func evalError(f *OutputFormatter, message string, ee *engine.EvalError, err error) error {
	if ee.Code == engine.ErrCodeInternal {
		slog.Error("internal inconsistency in compiled program", "error", err)
		_ = f.Error(ErrCodeInternal, message, ee.Details)
		return reportedError(ExitCommandError, ErrCodeInternal, err)
	}
	_ = f.Error(ErrCodeTypeMismatch, message, ee.Details)
	return reportedError(ExitFailure, ErrCodeTypeMismatch, err)
}
