package sieve_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve"
)

func ExampleCompile() {
	m, err := sieve.Compile("QTY > 2 AND SKU IN ('a', 'b')")
	if err != nil {
		panic(err)
	}

	for _, values := range []map[string]any{
		{"qty": 3, "sku": "a"},
		{"qty": 3, "sku": "c"},
		{"qty": 1.5, "sku": "b"},
	} {
		ok, err := m.Match(sieve.NewMapRow(values))
		fmt.Println(ok, err)
	}
	// Output:
	// true <nil>
	// false <nil>
	// false <nil>
}

func ExampleMatcher_Validate() {
	m := sieve.MustCompile("qty > 2 AND Colour = 'red'")

	unknown, _ := m.Validate([]string{"QTY", "SKU"}, sieve.WithCaseFold())
	fmt.Println(sieve.FormatUnknown(unknown))
	// Output:
	// Unknown field name: Colour
}

func TestFacadeErrors(t *testing.T) {
	_, err := sieve.Compile("A = 'x")
	require.Error(t, err)
	assert.True(t, sieve.IsSyntaxError(err))

	var se *sieve.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.Pos)

	m := sieve.MustCompile("A > 1")
	_, err = m.Match(sieve.NewMapRow(map[string]any{"a": "text"}))
	require.Error(t, err)
	assert.True(t, sieve.IsTypeMismatch(err))
}

func TestMustCompilePanics(t *testing.T) {
	assert.PanicsWithValue(t, `sieve: Compile("A ="): expected expression but found end of input (near position 3)`, func() {
		sieve.MustCompile("A =")
	})
}
