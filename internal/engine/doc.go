// Package engine evaluates compiled clauses against rows.
//
// The virtual machine is a stack interpreter over ir.Program cells. It has
// no jumps: AND and OR reduce every boolean down to a Mark sentinel, and IN
// lists are chains of comparisons against one duplicated operand.
//
// Rows are reached only through the NamedValues interface. A field that
// does not exist reads as NULL.
//
// Comparison rules:
//   - NULL on either side: <> is true, everything else is false.
//     NULL = NULL is false and NULL <> NULL is true.
//   - Int and Float mix by promoting the Int. Floats are equal within
//     FloatEpsilon.
//   - Bools compare as 0 and 1, strings by byte order, times
//     chronologically.
//   - Other combinations fail with TYPE_MISMATCH.
//
// Validation runs the same machine against a NameValidator, which answers
// every lookup with NULL and records unknown names.
//
// Matcher holds one program and pools evaluation stacks; it can be shared
// across goroutines.
package engine
