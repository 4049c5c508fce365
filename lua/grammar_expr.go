// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// expr parses a full expression: an atom followed by zero or more
// (binop, atom) pairs, folded into a precedence-respecting tree.
func (p *parser) expr(pos int) parsec.Step[Expression] {
	return parsec.Map(
		parsec.ThenZip(p.atom(pos), p.opAtoms),
		func(pair parsec.Pair[Expression, []opAtom]) Expression {
			return fold(pair.First, pair.Second)
		},
	)
}

// opAtoms parses zero or more (binop, atom) pairs.
func (p *parser) opAtoms(pos int) parsec.Step[[]opAtom] {
	return parsec.ZeroOrMore(pos, p.opAtom)
}

func (p *parser) opAtom(pos int) parsec.Step[opAtom] {
	return parsec.Map(
		parsec.ThenZip(p.binaryOp(pos), p.atom),
		func(pair parsec.Pair[BinaryOp, Expression]) opAtom {
			return opAtom{Op: pair.First, Right: pair.Second}
		},
	)
}

func (p *parser) binaryOp(pos int) parsec.Step[BinaryOp] {
	tok, err := p.at(pos)
	if err != nil {
		return parsec.Err[BinaryOp](err)
	}
	op, ok := binaryOpTokens[tok.kind]
	if !ok {
		return parsec.Fail[BinaryOp](pos)
	}
	return parsec.Success(op, pos+1)
}

// atom parses a single expression atom: a literal, a unary expression,
// a function definition, a table constructor, or a prefix expression
// (variable, call, or parenthesised expression).
func (p *parser) atom(pos int) parsec.Step[Expression] {
	return parsec.OrFrom(pos, p.nilExpr(pos)).
		Or(p.trueExpr).
		Or(p.falseExpr).
		Or(p.varArgsExpr).
		Or(p.unaryExpr).
		Or(p.numberExpr).
		Or(p.textExpr).
		Or(p.fnDefExpr).
		Or(p.tableConstructorExpr).
		Or(p.prefixExprAtom).
		Step()
}

func (p *parser) nilExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.kind(lualex.NilToken)(pos), func(token) Expression { return NilExpr{} })
}

func (p *parser) trueExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.kind(lualex.TrueToken)(pos), func(token) Expression { return TrueExpr{} })
}

func (p *parser) falseExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.kind(lualex.FalseToken)(pos), func(token) Expression { return FalseExpr{} })
}

func (p *parser) varArgsExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.kind(lualex.VarargToken)(pos), func(token) Expression { return VarArgsExpr{} })
}

func (p *parser) numberExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.numeral(pos), func(n Number) Expression { return NumberExpr{Number: n} })
}

func (p *parser) textExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.text(pos), func(t Text) Expression { return TextExpr{Text: t} })
}

func (p *parser) unaryExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(
		parsec.ThenZip(p.unaryOp(pos), p.atom),
		func(pair parsec.Pair[UnaryOp, Expression]) Expression {
			return UnaryExpr{Op: pair.First, Inner: pair.Second}
		},
	)
}

func (p *parser) unaryOp(pos int) parsec.Step[UnaryOp] {
	tok, err := p.at(pos)
	if err != nil {
		return parsec.Err[UnaryOp](err)
	}
	op, ok := unaryOpTokens[tok.kind]
	if !ok {
		return parsec.Fail[UnaryOp](pos)
	}
	return parsec.Success(op, pos+1)
}

func (p *parser) tableConstructorExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(p.tableConstructor(pos), func(t TableConstructor) Expression {
		return TableConstructorExpr{Table: t}
	})
}

func (p *parser) fnDefExpr(pos int) parsec.Step[Expression] {
	return parsec.Map(
		parsec.ThenZip(p.kind(lualex.FunctionToken)(pos), p.fnBody),
		func(pair parsec.Pair[token, fnBody]) Expression {
			return FnDefExpr{Params: pair.Second.params, Body: pair.Second.body}
		},
	)
}

// fnBody is the shared "(params) block end" tail of a function
// definition, factored out for use by function expressions and
// declarations alike.
type fnBody struct {
	params FnParams
	body   Block
}

func (p *parser) fnBody(pos int) parsec.Step[fnBody] {
	return parsec.Map(
		parsec.ThenZip(p.fnParams(pos), func(pos int) parsec.Step[Block] {
			return parsec.ThenSkip(p.block(pos), p.kind(lualex.EndToken))
		}),
		func(pair parsec.Pair[FnParams, Block]) fnBody {
			return fnBody{params: pair.First, body: pair.Second}
		},
	)
}
