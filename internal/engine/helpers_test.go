package engine

import (
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// row is a case-insensitive test row built from Go values.
type row map[string]any

func (r row) find(name string) (any, bool) {
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func (r row) Exists(name string) bool {
	_, ok := r.find(name)
	return ok
}

func (r row) Value(name string) ir.Value {
	v, _ := r.find(name)
	return ir.FromAny(v)
}

// program builds a program from literals and opcodes.
func program(cells ...any) *ir.Program {
	p := ir.NewProgram()
	for _, c := range cells {
		switch c := c.(type) {
		case ir.Opcode:
			p.Emit(c)
		case ir.Value:
			p.Push(c)
		default:
			p.Push(ir.FromAny(c))
		}
	}
	return p
}
