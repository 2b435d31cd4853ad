package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/compiler"
)

func TestValidate(t *testing.T) {
	known := []string{"A", "B"}
	tests := []struct {
		name   string
		clause string
		want   []string
	}{
		{"one unknown", "A = 1 AND C = 2", []string{"C"}},
		{"all known", "A = 1 OR B IS NULL", []string{}},
		{"empty clause", "", []string{}},
		{"sorted distinct", "Z = 1 OR C = 2 OR Z IS NULL OR A IN (D, 3)", []string{"C", "D", "Z"}},
		{"in list operands", "A IN (X, Y)", []string{"X", "Y"}},
		{"inside not", "NOT (Q = 1)", []string{"Q"}},
		{"case sensitive by default", "a = 1", []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown, err := Validate(compiler.MustCompile(tt.clause), known)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, unknown)
			assert.True(t, slices.IsSorted(unknown))
		})
	}
}

func TestValidateCaseFold(t *testing.T) {
	prog := compiler.MustCompile("name = 'x' AND ÉCOLE = 'y' AND Other = 1 AND OTHER = 2")
	unknown, err := Validate(prog, []string{"NAME", "école"}, WithCaseFold())
	require.NoError(t, err)
	assert.Equal(t, []string{"Other"}, unknown)
}

func TestValidateLiteralMismatch(t *testing.T) {
	_, err := Validate(compiler.MustCompile("1 = 'one'"), nil)
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}

func TestMatcherValidate(t *testing.T) {
	m, err := Compile("A = 1 AND C = 2")
	require.NoError(t, err)

	unknown, err := m.Validate([]string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, unknown)
}

func TestNameValidator(t *testing.T) {
	v := NewNameValidator([]string{"A"})
	assert.True(t, v.Exists("anything"))
	assert.True(t, v.Known("A"))
	assert.False(t, v.Known("a"))

	v.Value("b")
	v.Value("A")
	v.Value("b")
	v.Value("a")
	assert.Equal(t, []string{"a", "b"}, v.Unknown())
}

func TestFormatUnknown(t *testing.T) {
	assert.Equal(t, "", FormatUnknown(nil))
	assert.Equal(t, "Unknown field name: C", FormatUnknown([]string{"C"}))
	assert.Equal(t, "Unknown field names: a, b, c", FormatUnknown([]string{"a", "b", "c"}))
}
