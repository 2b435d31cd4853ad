package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Clause:      "A = 1",
		Rows: []RowCase{
			{Values: map[string]any{"A": 1}, Match: boolPtr(true)},
			{Values: map[string]any{"A": 2}, Match: boolPtr(false)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 1, result.Rows[1].Index)
	assert.Contains(t, result.Program, "IsEq")
	assert.Len(t, result.Fingerprint, 64)
	assert.False(t, result.Validated)
}

func TestRun_NilScenario(t *testing.T) {
	_, err := Run(nil)
	require.Error(t, err)
}

func TestRun_RowFailureIsRecorded(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectation",
		Description: "row expectation does not hold",
		Clause:      "A = 1",
		Rows: []RowCase{
			{Values: map[string]any{"A": 1}, Match: boolPtr(false)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "rows[0]")
}

func TestRun_SyntaxError(t *testing.T) {
	scenario := &Scenario{
		Name:        "syntax",
		Description: "clause does not compile",
		Clause:      "A = ",
		ExpectError: &ErrorExpectation{Kind: ErrorSyntax, Pos: intPtr(4)},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, "expected expression but found end of input", result.SyntaxError)
	assert.Equal(t, 4, result.SyntaxPos)
	assert.Empty(t, result.Program)
}

func TestRun_UnexpectedSyntaxError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected",
		Description: "clause should compile but does not",
		Clause:      "A = 'x",
		Rows:        []RowCase{{Values: map[string]any{}, Match: boolPtr(false)}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Empty(t, result.Rows)
}

func TestRun_Validation(t *testing.T) {
	scenario := &Scenario{
		Name:          "validation",
		Description:   "unknown fields",
		Clause:        "A = 1 OR b = 2",
		Fields:        []string{"A", "B"},
		ExpectUnknown: []string{"b"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.True(t, result.Validated)
	assert.Equal(t, []string{"b"}, result.Unknown)

	scenario.CaseFold = true
	result, err = Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Empty(t, result.Unknown)
}

func TestRun_ValidationTypeMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "literal_mismatch",
		Description: "two literals of different kinds",
		Clause:      "1 = 'one'",
		Fields:      []string{},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.False(t, result.Validated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "validate: TYPE_MISMATCH")
}

func TestRun_CrossCheckSkipsNonScalarRows(t *testing.T) {
	scenario := &Scenario{
		Name:        "nested",
		Description: "nested values are opaque",
		Clause:      "TAGS IS NOT NULL",
		Rows: []RowCase{
			{Values: map[string]any{"TAGS": []any{"a", "b"}}, Match: boolPtr(true)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario := &Scenario{
		Name:        "logged",
		Description: "rows are logged",
		Clause:      "A IS NULL",
		Rows:        []RowCase{{Values: map[string]any{}, Match: boolPtr(true)}},
	}

	result, err := New(WithLogger(logger)).Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Contains(t, buf.String(), "scenario=logged")
	assert.Contains(t, buf.String(), "row evaluated")
}

func TestCrossCheck_AgreesOnScalars(t *testing.T) {
	m := mustMatcher(t, "A = 1 AND B = 'x' AND C IS NULL AND D = TRUE")
	values := map[string]any{"a": 1, "B": "x", "C": nil, "D": true}

	want := evalRow(m, rowsFromMap(values))
	assert.True(t, want.Match)
	assert.Empty(t, crossCheck(m, 0, values, want))

	want.Match = false
	assert.Contains(t, crossCheck(m, 0, values, want), "struct adapter gave match")
}
