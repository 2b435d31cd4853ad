package harness

// RowOutcome records how one scenario row evaluated.
type RowOutcome struct {
	Index int    `json:"index"`
	Match bool   `json:"match"`
	Error string `json:"error,omitempty"` // error kind, "" on success
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Program is the disassembled program, empty if compilation failed.
	Program string `json:"program,omitempty"`

	// Fingerprint is the program content hash.
	Fingerprint string `json:"fingerprint,omitempty"`

	// SyntaxError is the compile error message, with SyntaxPos its
	// offset. Empty if the clause compiled.
	SyntaxError string `json:"syntax_error,omitempty"`
	SyntaxPos   int    `json:"syntax_pos,omitempty"`

	// Validated is true when the clause was checked against known fields,
	// with Unknown holding the result.
	Validated bool     `json:"validated,omitempty"`
	Unknown   []string `json:"unknown,omitempty"`

	// Rows holds one outcome per scenario row.
	Rows []RowOutcome `json:"rows"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Rows:   []RowOutcome{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
