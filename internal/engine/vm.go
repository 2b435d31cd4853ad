package engine

import "github.com/roach88/sieve/internal/ir"

// Execute runs prog against row using stack as scratch space and returns
// the match result.
//
// Execution is a single forward pass. Literals are pushed; instructions pop
// their operands and push their result. AND and OR fold every boolean down
// to the nearest Mark. All operands are evaluated, there is no short
// circuit.
//
// A well-formed program leaves exactly one boolean on the stack. Anything
// else is reported as an INTERNAL_INCONSISTENCY EvalError. Comparison
// failures are reported as TYPE_MISMATCH.
//
// The stack is reset on entry.
func Execute(prog *ir.Program, row NamedValues, stack *Stack) (bool, error) {
	stack.Reset()

	for pc := 0; pc < prog.Len(); pc++ {
		c := prog.At(pc)
		if c.IsLiteral() {
			stack.push(c.Lit)
			continue
		}

		switch c.Op {
		case ir.OpNop:

		case ir.OpMark:
			stack.pushMark()

		case ir.OpDup:
			top, ok := stack.top()
			if !ok {
				return false, internalErrorf(pc, "Dup on empty stack")
			}
			stack.slots = append(stack.slots, top)

		case ir.OpExch:
			n := len(stack.slots)
			if n < 2 {
				return false, internalErrorf(pc, "Exch needs two entries, have %d", n)
			}
			stack.slots[n-1], stack.slots[n-2] = stack.slots[n-2], stack.slots[n-1]

		case ir.OpPop:
			if _, ok := stack.pop(); !ok {
				return false, internalErrorf(pc, "Pop on empty stack")
			}

		case ir.OpGet:
			v, err := popValue(stack, pc)
			if err != nil {
				return false, err
			}
			name, ok := v.(ir.String)
			if !ok {
				return false, internalErrorf(pc, "Get expects a field name, got %s", ir.TypeName(v))
			}
			stack.push(lookup(row, string(name)))

		case ir.OpIsNull, ir.OpNotNull:
			v, err := popValue(stack, pc)
			if err != nil {
				return false, err
			}
			isNull := ir.IsNull(v)
			stack.push(ir.Bool(isNull == (c.Op == ir.OpIsNull)))

		case ir.OpIsEq, ir.OpNotEq, ir.OpGt, ir.OpGe, ir.OpLt, ir.OpLe:
			b, err := popValue(stack, pc)
			if err != nil {
				return false, err
			}
			a, err := popValue(stack, pc)
			if err != nil {
				return false, err
			}
			res, err := Compare(a, b, c.Op)
			if err != nil {
				return false, err
			}
			stack.push(ir.Bool(res))

		case ir.OpNeg:
			v, err := popBool(stack, pc)
			if err != nil {
				return false, err
			}
			stack.push(!v)

		case ir.OpAnd, ir.OpOr:
			res, err := reduce(stack, pc, c.Op == ir.OpAnd)
			if err != nil {
				return false, err
			}
			stack.push(ir.Bool(res))

		default:
			return false, internalErrorf(pc, "unknown opcode %s", c.Op)
		}
	}

	if n := stack.Len(); n != 1 {
		return false, internalErrorf(prog.Len(), "program left %d entries on the stack", n)
	}
	result, err := popBool(stack, prog.Len())
	if err != nil {
		return false, err
	}
	return bool(result), nil
}

func lookup(row NamedValues, name string) ir.Value {
	if row == nil || !row.Exists(name) {
		return ir.Null{}
	}
	if v := row.Value(name); v != nil {
		return v
	}
	return ir.Null{}
}

func popValue(stack *Stack, pc int) (ir.Value, error) {
	s, ok := stack.pop()
	if !ok {
		return nil, internalErrorf(pc, "stack underflow")
	}
	if s.mark {
		return nil, internalErrorf(pc, "unexpected Mark on stack")
	}
	return s.v, nil
}

func popBool(stack *Stack, pc int) (ir.Bool, error) {
	v, err := popValue(stack, pc)
	if err != nil {
		return false, err
	}
	b, ok := v.(ir.Bool)
	if !ok {
		return false, internalErrorf(pc, "expected Bool on stack, got %s", ir.TypeName(v))
	}
	return b, nil
}

// reduce pops booleans down to and including the nearest Mark. With all
// set it reports whether every boolean was true, otherwise whether any
// was.
func reduce(stack *Stack, pc int, all bool) (bool, error) {
	res := all
	for {
		s, ok := stack.pop()
		if !ok {
			return false, internalErrorf(pc, "no Mark below reduction")
		}
		if s.mark {
			return res, nil
		}
		b, ok := s.v.(ir.Bool)
		if !ok {
			return false, internalErrorf(pc, "expected Bool in reduction, got %s", ir.TypeName(s.v))
		}
		if all {
			res = res && bool(b)
		} else {
			res = res || bool(b)
		}
	}
}
