package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario compiles one clause and checks the outcome of compiling,
// validating and matching it against a list of rows.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Clause is the filter text. An empty clause is valid and matches
	// every row.
	Clause string `yaml:"clause"`

	// Fields lists the known field names. When present the clause is
	// validated against it and ExpectUnknown is checked.
	Fields []string `yaml:"fields,omitempty"`

	// CaseFold validates field names without regard to case.
	CaseFold bool `yaml:"case_fold,omitempty"`

	// ExpectUnknown is the sorted list of unknown field names validation
	// must report. Omitted means none.
	ExpectUnknown []string `yaml:"expect_unknown,omitempty"`

	// ExpectError, if set, requires compilation to fail.
	ExpectError *ErrorExpectation `yaml:"expect_error,omitempty"`

	// Rows are evaluated in order against the compiled clause.
	Rows []RowCase `yaml:"rows,omitempty"`
}

// ErrorExpectation describes an expected compile failure.
type ErrorExpectation struct {
	// Kind must be "syntax".
	Kind string `yaml:"kind"`

	// Pos is the expected character offset, if given.
	Pos *int `yaml:"pos,omitempty"`

	// Message is the expected error message without the position suffix,
	// if given.
	Message string `yaml:"message,omitempty"`
}

// RowCase is one row and its expected outcome. Exactly one of Match and
// Error is set.
type RowCase struct {
	// Values holds the row fields.
	Values map[string]any `yaml:"values"`

	// Match is the expected match result.
	Match *bool `yaml:"match,omitempty"`

	// Error is the expected evaluation error kind, "type_mismatch".
	Error string `yaml:"error,omitempty"`
}

// Error kinds used in scenarios and snapshots.
const (
	ErrorSyntax       = "syntax"
	ErrorTypeMismatch = "type_mismatch"
	ErrorInternal     = "internal"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	// Reject unknown fields (catches typos like "row:" vs "rows:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.ExpectError == nil && len(s.Rows) == 0 && s.Fields == nil {
		return fmt.Errorf("scenario checks nothing: give rows, fields or expect_error")
	}

	if s.ExpectError != nil {
		if s.ExpectError.Kind != ErrorSyntax {
			return fmt.Errorf("expect_error.kind must be %q, got %q", ErrorSyntax, s.ExpectError.Kind)
		}
		if len(s.Rows) > 0 || s.Fields != nil {
			return fmt.Errorf("expect_error cannot be combined with rows or fields")
		}
	}

	if len(s.ExpectUnknown) > 0 && s.Fields == nil {
		return fmt.Errorf("expect_unknown requires fields")
	}

	for i, row := range s.Rows {
		if row.Values == nil {
			return fmt.Errorf("rows[%d]: values is required (use {} for an empty row)", i)
		}
		switch {
		case row.Match != nil && row.Error != "":
			return fmt.Errorf("rows[%d]: match and error are mutually exclusive", i)
		case row.Match == nil && row.Error == "":
			return fmt.Errorf("rows[%d]: one of match or error is required", i)
		case row.Error != "" && row.Error != ErrorTypeMismatch:
			return fmt.Errorf("rows[%d]: unknown error kind %q", i, row.Error)
		}
	}

	return nil
}
