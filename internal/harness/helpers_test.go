package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/rows"
)

func mustMatcher(t *testing.T, clause string) *engine.Matcher {
	t.Helper()
	m, err := engine.Compile(clause)
	require.NoError(t, err)
	return m
}

func rowsFromMap(values map[string]any) engine.NamedValues {
	return rows.NewMapRow(values)
}
