package engine

import "github.com/roach88/sieve/internal/ir"

// NamedValues is a row as seen by the virtual machine: a set of fields
// looked up by name at evaluation time. There is no fixed schema.
//
// Implementations decide how names are matched. Adapters over host schemas
// with case-insensitive field names should match case-insensitively.
type NamedValues interface {
	// Exists reports whether the row has a field called name.
	Exists(name string) bool

	// Value returns the value of field name. A nil result is treated as
	// NULL.
	Value(name string) ir.Value
}

// slot is one evaluation stack entry: a value or a Mark sentinel.
type slot struct {
	v    ir.Value
	mark bool
}

// Stack is the evaluation stack of the virtual machine. A Stack may be
// reused across Execute calls but must not be shared between goroutines
// while in use.
type Stack struct {
	slots []slot
}

// NewStack returns a stack with room for size entries before growing.
func NewStack(size int) *Stack {
	return &Stack{slots: make([]slot, 0, size)}
}

// Reset empties the stack, keeping its storage.
func (s *Stack) Reset() {
	clear(s.slots)
	s.slots = s.slots[:0]
}

// Len returns the number of entries on the stack.
func (s *Stack) Len() int {
	return len(s.slots)
}

func (s *Stack) push(v ir.Value) {
	s.slots = append(s.slots, slot{v: v})
}

func (s *Stack) pushMark() {
	s.slots = append(s.slots, slot{mark: true})
}

func (s *Stack) pop() (slot, bool) {
	n := len(s.slots)
	if n == 0 {
		return slot{}, false
	}
	top := s.slots[n-1]
	s.slots[n-1] = slot{}
	s.slots = s.slots[:n-1]
	return top, true
}

func (s *Stack) top() (slot, bool) {
	if len(s.slots) == 0 {
		return slot{}, false
	}
	return s.slots[len(s.slots)-1], true
}
