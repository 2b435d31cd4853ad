// Package ir holds the compiled representation shared by the compiler and
// the engine: runtime values, opcodes and programs.
//
// All other internal packages import ir; ir imports nothing internal.
//
// Values:
// Value is a closed union (Null, Bool, Int, Float, String, Time, Opaque).
// Literals get their kind when parsed; row fields get theirs when the row
// adapter converts them with FromAny.
//
// Programs:
// A Program is a flat sequence of Cells, each either an instruction or a
// literal. There is no AST. The compiler writes cells while it parses,
// reserving Nop slots where the final opcode (Mark or nothing) is only known
// after a whole term or clause has been read, then squeezes the Nops out.
//
//	A = 3 AND B IS NULL
//
// compiles to
//
//	  0  Mark
//	  1  'A'
//	  2  Get
//	  3  3
//	  4  IsEq
//	  5  'B'
//	  6  Get
//	  7  IsNull
//	  8  And
package ir
