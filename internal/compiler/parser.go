package compiler

import (
	"log/slog"

	"golang.org/x/text/cases"

	"github.com/roach88/sieve/internal/ir"
)

var comparisonOps = map[TokenKind]ir.Opcode{
	TokenEq:  ir.OpIsEq,
	TokenNeq: ir.OpNotEq,
	TokenLt:  ir.OpLt,
	TokenLe:  ir.OpLe,
	TokenGt:  ir.OpGt,
	TokenGe:  ir.OpGe,
}

// Compile parses clause and returns its program.
//
// Parsing emits cells directly; there is no intermediate tree. AND and OR
// runs reserve a Nop before their first operand and patch it to Mark once a
// second operand is seen. Remaining Nops are squeezed out at the end.
//
// An empty or all-whitespace clause compiles to the single literal TRUE.
// Any malformed input returns a *SyntaxError and a nil program.
func Compile(clause string) (*ir.Program, error) {
	p := &parser{lex: NewLexer(clause), prog: ir.NewProgram()}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Kind == TokenEnd {
		p.prog.Push(ir.Bool(true))
		return p.prog, nil
	}

	if err := p.parseClause(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenEnd {
		return nil, p.expected("end of input")
	}

	p.prog.Squeeze()
	slog.Debug("compiled clause", "clause", clause, "cells", p.prog.Len())
	return p.prog, nil
}

// MustCompile is like Compile but panics on error. It is meant for clauses
// fixed at build time.
func MustCompile(clause string) *ir.Program {
	prog, err := Compile(clause)
	if err != nil {
		panic("compiler: Compile(" + clause + "): " + err.Error())
	}
	return prog
}

type parser struct {
	lex  *Lexer
	tok  Token
	prog *ir.Program
}

func (p *parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expected(what string) *SyntaxError {
	return syntaxErrorf(p.tok.Pos, "expected %s but found %s", what, p.tok.describe())
}

func (p *parser) isKeyword(kw Keyword) bool {
	return p.tok.Kind == TokenSymbol && p.tok.Keyword == kw
}

func (p *parser) expect(kind TokenKind) error {
	if p.tok.Kind != kind {
		return p.expected(`"` + tokenText[kind] + `"`)
	}
	return p.advance()
}

// parseClause: Term {OR Term}
func (p *parser) parseClause() error {
	return p.parseRun(KwOr, ir.OpOr, p.parseTerm)
}

// parseTerm: Factor {AND Factor}
func (p *parser) parseTerm() error {
	return p.parseRun(KwAnd, ir.OpAnd, p.parseFactor)
}

// parseRun parses one or more operands separated by sep. With two or more
// operands the reserved slot becomes Mark and reduce is appended.
func (p *parser) parseRun(sep Keyword, reduce ir.Opcode, operand func() error) error {
	slot := p.prog.Reserve()
	if err := operand(); err != nil {
		return err
	}

	n := 1
	for p.isKeyword(sep) {
		if err := p.advance(); err != nil {
			return err
		}
		if err := operand(); err != nil {
			return err
		}
		n++
	}

	if n > 1 {
		p.prog.Patch(slot, ir.OpMark)
		p.prog.Emit(reduce)
	}
	return nil
}

// parseFactor: [NOT] Primary
func (p *parser) parseFactor() error {
	if !p.isKeyword(KwNot) {
		return p.parsePrimary()
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.parsePrimary(); err != nil {
		return err
	}
	p.prog.Emit(ir.OpNeg)
	return nil
}

// parsePrimary: '(' Clause ')' | Predicate
func (p *parser) parsePrimary() error {
	if p.tok.Kind != TokenLParen {
		return p.parsePredicate()
	}
	if err := p.advance(); err != nil {
		return err
	}
	if err := p.parseClause(); err != nil {
		return err
	}
	return p.expect(TokenRParen)
}

// parsePredicate:
//
//	Expression CompOp Expression
//	Expression [NOT] IN '(' Expression {',' Expression} ')'
//	Expression IS [NOT] NULL
func (p *parser) parsePredicate() error {
	if err := p.parseExpression(); err != nil {
		return err
	}

	if op, ok := comparisonOps[p.tok.Kind]; ok {
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.parseExpression(); err != nil {
			return err
		}
		p.prog.Emit(op)
		return nil
	}

	switch {
	case p.isKeyword(KwIn):
		if err := p.advance(); err != nil {
			return err
		}
		return p.parseInList(false)

	case p.isKeyword(KwNot):
		if err := p.advance(); err != nil {
			return err
		}
		if !p.isKeyword(KwIn) {
			return p.expected("IN")
		}
		if err := p.advance(); err != nil {
			return err
		}
		return p.parseInList(true)

	case p.isKeyword(KwIs):
		if err := p.advance(); err != nil {
			return err
		}
		op := ir.OpIsNull
		if p.isKeyword(KwNot) {
			op = ir.OpNotNull
			if err := p.advance(); err != nil {
				return err
			}
		}
		if !p.isKeyword(KwNull) {
			return p.expected("NULL")
		}
		if err := p.advance(); err != nil {
			return err
		}
		p.prog.Emit(op)
		return nil
	}

	return p.expected("comparison operator, IN or IS")
}

// parseInList emits the candidate chain for an IN list. The tested value is
// already on the stack and is evaluated once:
//
//	x Mark Exch {Dup e Cmp Exch}... Pop Reduce
//
// Each step leaves a boolean under x; Pop drops x and Reduce folds the run.
func (p *parser) parseInList(negate bool) error {
	cmp, reduce := ir.OpIsEq, ir.OpOr
	if negate {
		cmp, reduce = ir.OpNotEq, ir.OpAnd
	}

	if err := p.expect(TokenLParen); err != nil {
		return err
	}
	p.prog.Emit(ir.OpMark)
	p.prog.Emit(ir.OpExch)

	for {
		p.prog.Emit(ir.OpDup)
		if err := p.parseExpression(); err != nil {
			return err
		}
		p.prog.Emit(cmp)
		p.prog.Emit(ir.OpExch)

		if p.tok.Kind != TokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.tok.Kind != TokenRParen {
		return p.expected(`"," or ")"`)
	}
	if err := p.advance(); err != nil {
		return err
	}

	p.prog.Emit(ir.OpPop)
	p.prog.Emit(reduce)
	return nil
}

// parseExpression: Symbol | String | Number | TRUE | FALSE | NULL
func (p *parser) parseExpression() error {
	tok := p.tok
	switch tok.Kind {
	case TokenSymbol:
		switch tok.Keyword {
		case KwNone:
			p.prog.Push(ir.String(tok.Text))
			p.prog.Emit(ir.OpGet)
		case KwTrue:
			p.prog.Push(ir.Bool(true))
		case KwFalse:
			p.prog.Push(ir.Bool(false))
		case KwNull:
			p.prog.Push(ir.Null{})
		default:
			return p.expected("expression")
		}
	case TokenString, TokenNumber:
		p.prog.Push(tok.Value)
	default:
		return p.expected("expression")
	}
	return p.advance()
}

// Fields returns the field names referenced by prog, in order of first
// reference. Names that are equal under Unicode case folding are listed
// once, matching how rows resolve field names.
func Fields(prog *ir.Program) []string {
	var names []string
	fold := cases.Fold()
	seen := make(map[string]bool)
	for i := 0; i+1 < prog.Len(); i++ {
		c, next := prog.At(i), prog.At(i+1)
		if !c.IsLiteral() || next.IsLiteral() || next.Op != ir.OpGet {
			continue
		}
		s, ok := c.Lit.(ir.String)
		if !ok {
			continue
		}
		key := fold.String(string(s))
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, string(s))
	}
	return names
}
