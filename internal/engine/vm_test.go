package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/ir"
)

func TestExecuteInstructions(t *testing.T) {
	tests := []struct {
		name string
		prog *ir.Program
		row  NamedValues
		want bool
	}{
		{"literal", program(ir.Bool(true)), nil, true},
		{"get and compare", program("A", ir.OpGet, 2, ir.OpIsEq), row{"a": 2}, true},
		{"missing field is null", program("A", ir.OpGet, ir.OpIsNull), row{}, true},
		{"nil value is null", program("A", ir.OpGet, ir.OpNotNull), row{"A": nil}, false},
		{"neg", program(ir.Bool(false), ir.OpNeg), nil, true},
		{"and all true", program(ir.OpMark, true, true, true, ir.OpAnd), nil, true},
		{"and one false", program(ir.OpMark, true, false, true, ir.OpAnd), nil, false},
		{"or one true", program(ir.OpMark, false, true, ir.OpOr), nil, true},
		{"or none true", program(ir.OpMark, false, false, ir.OpOr), nil, false},
		{"empty or", program(ir.OpMark, ir.OpOr), nil, false},
		{"empty and", program(ir.OpMark, ir.OpAnd), nil, true},
		{"dup exch pop", program(7, 1, ir.OpDup, ir.OpIsEq, ir.OpExch, ir.OpPop), nil, true},
		{"nop tolerated", program(ir.OpNop, true, ir.OpNop), nil, true},
		{"nested marks", program(ir.OpMark, ir.OpMark, false, true, ir.OpAnd, true, ir.OpOr), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Execute(tt.prog, tt.row, NewStack(4))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecuteInternalErrors(t *testing.T) {
	tests := []struct {
		name string
		prog *ir.Program
	}{
		{"empty program", program()},
		{"non bool result", program(1)},
		{"two results", program(true, true)},
		{"neg non bool", program(1, ir.OpNeg)},
		{"underflow", program(ir.OpIsEq)},
		{"pop empty", program(ir.OpPop)},
		{"dup empty", program(ir.OpDup)},
		{"exch single", program(true, ir.OpExch)},
		{"and without mark", program(true, true, ir.OpAnd)},
		{"and over non bool", program(ir.OpMark, 1, ir.OpAnd)},
		{"get non string", program(1, ir.OpGet, ir.OpIsNull)},
		{"mark as operand", program(ir.OpMark, ir.OpIsNull)},
		{"mark left over", program(ir.OpMark, true)},
		{"unknown opcode", program(ir.Opcode(99))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(tt.prog, row{}, NewStack(4))
			require.Error(t, err)
			assert.True(t, IsInternal(err), "got %v", err)
		})
	}
}

func TestExecuteResetsStack(t *testing.T) {
	stack := NewStack(2)
	stack.push(ir.Int(1))
	stack.pushMark()

	got, err := Execute(program(true), nil, stack)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 0, stack.Len())
}

func TestExecuteTypeMismatchSurfaces(t *testing.T) {
	_, err := Execute(program("A", ir.OpGet, 1, ir.OpIsEq), row{"A": "x"}, NewStack(4))
	require.Error(t, err)
	assert.True(t, IsTypeMismatch(err))
}
