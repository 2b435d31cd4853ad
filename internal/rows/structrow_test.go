package rows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func TestStructRowValues(t *testing.T) {
	r, err := StructRowFromMap(map[string]any{
		"Count": 3,
		"name":  "x",
		"flag":  true,
		"none":  nil,
		"list":  []any{1.0, "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, ir.Float(3), r.Value("count"))
	assert.Equal(t, ir.String("x"), r.Value("NAME"))
	assert.Equal(t, ir.Bool(true), r.Value("flag"))
	assert.Equal(t, ir.Null{}, r.Value("none"))
	assert.Equal(t, ir.Opaque{V: []any{1.0, "b"}}, r.Value("list"))

	assert.True(t, r.Exists("none"))
	assert.False(t, r.Exists("missing"))
	assert.Nil(t, r.Value("missing"))
}

func TestStructRowFromMapRejectsTime(t *testing.T) {
	_, err := StructRowFromMap(map[string]any{"t": time.Now()})
	assert.Error(t, err)
}
