package ir

import (
	"fmt"
	"strings"
)

// Opcode is a virtual machine instruction. Opcodes have fixed stack effects
// and there are no jumps: AND/OR arity is carried by Mark sentinels.
type Opcode uint8

const (
	OpNop     Opcode = iota // no effect; placeholder removed by Squeeze
	OpMark                  // push(mark)
	OpDup                   // push(top)
	OpExch                  // swap top two entries
	OpPop                   // pop()
	OpGet                   // push(row[pop()])
	OpIsNull                // push(pop() IS NULL)
	OpNotNull               // push(pop() IS NOT NULL)
	OpIsEq                  // b, a := pop(), pop(); push(a = b)
	OpNotEq                 // b, a := pop(), pop(); push(a <> b)
	OpGt                    // b, a := pop(), pop(); push(a > b)
	OpGe                    // b, a := pop(), pop(); push(a >= b)
	OpLt                    // b, a := pop(), pop(); push(a < b)
	OpLe                    // b, a := pop(), pop(); push(a <= b)
	OpNeg                   // push(!pop())
	OpAnd                   // push(all values down to mark)
	OpOr                    // push(any value down to mark)
)

var opcodeNames = [...]string{
	OpNop:     "Nop",
	OpMark:    "Mark",
	OpDup:     "Dup",
	OpExch:    "Exch",
	OpPop:     "Pop",
	OpGet:     "Get",
	OpIsNull:  "IsNull",
	OpNotNull: "NotNull",
	OpIsEq:    "IsEq",
	OpNotEq:   "NotEq",
	OpGt:      "Gt",
	OpGe:      "Ge",
	OpLt:      "Lt",
	OpLe:      "Le",
	OpNeg:     "Neg",
	OpAnd:     "And",
	OpOr:      "Or",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// IsComparison reports whether op is one of the six binary comparisons.
func (op Opcode) IsComparison() bool {
	return op >= OpIsEq && op <= OpLe
}

// Cell is one slot of a Program: an instruction, or a literal operand when
// Lit is non-nil.
type Cell struct {
	Op  Opcode
	Lit Value
}

// Instr returns an instruction cell.
func Instr(op Opcode) Cell {
	return Cell{Op: op}
}

// Literal returns a literal cell. A nil value is stored as Null.
func Literal(v Value) Cell {
	if v == nil {
		v = Null{}
	}
	return Cell{Lit: v}
}

// IsLiteral reports whether the cell pushes a value rather than executing
// an instruction.
func (c Cell) IsLiteral() bool {
	return c.Lit != nil
}

func (c Cell) String() string {
	if c.IsLiteral() {
		return c.Lit.String()
	}
	return c.Op.String()
}

// Program is the flat compiled form of a clause.
//
// A Program is built append-only by the compiler. Nop cells act as
// forward-patchable slots while parsing and are removed by Squeeze once the
// clause has been fully scanned. After that the program is never mutated
// and may be shared between goroutines.
type Program struct {
	cells []Cell
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{cells: make([]Cell, 0, 16)}
}

// Emit appends an instruction and returns its index.
func (p *Program) Emit(op Opcode) int {
	p.cells = append(p.cells, Instr(op))
	return len(p.cells) - 1
}

// Push appends a literal and returns its index.
func (p *Program) Push(v Value) int {
	p.cells = append(p.cells, Literal(v))
	return len(p.cells) - 1
}

// Reserve appends a Nop placeholder to be patched later.
func (p *Program) Reserve() int {
	return p.Emit(OpNop)
}

// Patch replaces the instruction at index at.
func (p *Program) Patch(at int, op Opcode) {
	p.cells[at] = Instr(op)
}

// Squeeze removes every Nop instruction in place.
func (p *Program) Squeeze() {
	out := p.cells[:0]
	for _, c := range p.cells {
		if !c.IsLiteral() && c.Op == OpNop {
			continue
		}
		out = append(out, c)
	}
	p.cells = out
}

// Len returns the number of cells.
func (p *Program) Len() int {
	return len(p.cells)
}

// At returns the cell at index i.
func (p *Program) At(i int) Cell {
	return p.cells[i]
}

// Cells returns a copy of the program cells.
func (p *Program) Cells() []Cell {
	out := make([]Cell, len(p.cells))
	copy(out, p.cells)
	return out
}

// String disassembles the program, one cell per line.
func (p *Program) String() string {
	var b strings.Builder
	for i, c := range p.cells {
		fmt.Fprintf(&b, "%3d  %s\n", i, c)
	}
	return b.String()
}
