package engine

import (
	"cmp"
	"math"
	"strings"

	"github.com/roach88/sieve/internal/ir"
)

// FloatEpsilon is the tolerance under which two floating values compare
// equal. Ordering uses the same three-way result, so = <= and >= agree.
const FloatEpsilon = 1e-9

// Compare applies the comparison op to a and b, where a is the left
// operand.
//
// If either operand is NULL the result is true for NotEq and false for
// every other operator. This includes NULL compared with NULL.
//
// Otherwise operands are compared by kind:
//
//	Int, Int       as int64
//	Float, Float   with FloatEpsilon equality
//	Int, Float     the Int is promoted to float64
//	Bool, Bool     as 0 and 1
//	String, String by byte order
//	Time, Time     chronologically
//
// Any other combination fails with a TYPE_MISMATCH EvalError.
func Compare(a, b ir.Value, op ir.Opcode) (bool, error) {
	if !op.IsComparison() {
		return false, &EvalError{
			Code:    ErrCodeInternal,
			Message: "not a comparison: " + op.String(),
		}
	}
	if ir.IsNull(a) || ir.IsNull(b) {
		return op == ir.OpNotEq, nil
	}

	c, ok := compare3(a, b)
	if !ok {
		return false, NewTypeMismatchError(a, b, op)
	}

	switch op {
	case ir.OpIsEq:
		return c == 0, nil
	case ir.OpNotEq:
		return c != 0, nil
	case ir.OpGt:
		return c > 0, nil
	case ir.OpGe:
		return c >= 0, nil
	case ir.OpLt:
		return c < 0, nil
	default: // ir.OpLe
		return c <= 0, nil
	}
}

// compare3 returns -1, 0 or +1 for comparable non-null operands. The
// second result is false when the kinds cannot be compared.
func compare3(a, b ir.Value) (int, bool) {
	switch x := a.(type) {
	case ir.Int:
		switch y := b.(type) {
		case ir.Int:
			return cmp.Compare(x, y), true
		case ir.Float:
			return compareFloat(float64(x), float64(y)), true
		}
	case ir.Float:
		switch y := b.(type) {
		case ir.Float:
			return compareFloat(float64(x), float64(y)), true
		case ir.Int:
			return compareFloat(float64(x), float64(y)), true
		}
	case ir.Bool:
		if y, ok := b.(ir.Bool); ok {
			return cmp.Compare(boolInt(x), boolInt(y)), true
		}
	case ir.String:
		if y, ok := b.(ir.String); ok {
			return strings.Compare(string(x), string(y)), true
		}
	case ir.Time:
		if y, ok := b.(ir.Time); ok {
			return x.Time().Compare(y.Time()), true
		}
	}
	return 0, false
}

// compareFloat orders like cmp.Compare except that finite values within
// FloatEpsilon are equal. Equal infinities compare 0 and NaN sorts below
// every number.
func compareFloat(x, y float64) int {
	if x == y || math.Abs(x-y) < FloatEpsilon {
		return 0
	}
	return cmp.Compare(x, y)
}

func boolInt(b ir.Bool) int {
	if b {
		return 1
	}
	return 0
}
