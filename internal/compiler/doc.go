// Package compiler turns filter clause text into ir.Program bytecode.
//
// The accepted language is the boolean part of a SQL WHERE clause:
//
//	Clause     := Term {OR Term}
//	Term       := Factor {AND Factor}
//	Factor     := [NOT] Primary
//	Primary    := '(' Clause ')' | Predicate
//	Predicate  := Expression CompOp Expression
//	            | Expression [NOT] IN '(' Expression {',' Expression} ')'
//	            | Expression IS [NOT] NULL
//	Expression := Symbol | String | Number | TRUE | FALSE | NULL
//	CompOp     := '=' | '<>' | '<' | '<=' | '>' | '>='
//
// Keywords match in any case. A symbol that is not a keyword is a field
// reference. There is no arithmetic.
package compiler
