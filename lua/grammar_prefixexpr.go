// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// Lua's prefix-expression grammar is left-recursive and ambiguous
// between var, functioncall, and a parenthesised expression. The rule
// applied throughout this file: a suffix chain that ends with a field
// access (.id or [expr]) commits to being a Var; a chain that ends with
// call arguments commits to being a FnCall. Alternatives are tried in a
// fixed order and backtrack to their starting position on Fail, so the
// first shape that fully parses wins.

// parenExpr parses "( expression )", producing the inner expression.
func (p *parser) parenExpr(pos int) parsec.Step[Expression] {
	return parsec.ThenSkip(
		parsec.Then(p.kind(lualex.LParenToken)(pos), p.expr),
		p.kind(lualex.RParenToken),
	)
}

// suffix parses a single field-access step: ".id" or "[expr]".
func (p *parser) suffix(pos int) parsec.Step[Suffix] {
	return parsec.OrFrom(pos, p.suffixField(pos)).Or(p.suffixIndex).Step()
}

func (p *parser) suffixField(pos int) parsec.Step[Suffix] {
	return parsec.Map(
		parsec.Then(p.kind(lualex.DotToken)(pos), p.id),
		func(id Id) Suffix { return Suffix{Id: &id} },
	)
}

func (p *parser) suffixIndex(pos int) parsec.Step[Suffix] {
	return parsec.Map(
		parsec.ThenSkip(parsec.Then(p.kind(lualex.LBracketToken)(pos), p.expr), p.kind(lualex.RBracketToken)),
		func(e Expression) Suffix { return Suffix{Expr: e} },
	)
}

// varSuffix parses zero-or-more call-like NameArgs followed by exactly
// one field-access Suffix.
func (p *parser) varSuffix(pos int) parsec.Step[VarSuffix] {
	return parsec.Map(
		parsec.ThenZip(p.nameArgsList(pos), p.suffix),
		func(pair parsec.Pair[[]NameArgs, Suffix]) VarSuffix {
			return VarSuffix{Calls: pair.First, Suffix: pair.Second}
		},
	)
}

func (p *parser) varSuffixes(pos int) parsec.Step[[]VarSuffix] {
	return parsec.ZeroOrMore(pos, p.varSuffix)
}

// varHeadId is the VarHead alternative consisting of a bare identifier.
func (p *parser) varHeadId(pos int) parsec.Step[Var] {
	return parsec.Map(p.id(pos), func(id Id) Var { return Var{HeadId: &id} })
}

// varHeadExpr is the VarHead alternative "( expression ) VarSuffix" — a
// parenthesised expression committed to variable-ness by a required
// trailing field access.
func (p *parser) varHeadExpr(pos int) parsec.Step[Var] {
	return parsec.Map(
		parsec.ThenZip(p.parenExpr(pos), p.varSuffix),
		func(pair parsec.Pair[Expression, VarSuffix]) Var {
			return Var{HeadExpr: pair.First, Tail: []VarSuffix{pair.Second}}
		},
	)
}

func (p *parser) varBase(pos int) parsec.Step[Var] {
	return parsec.OrFrom(pos, p.varHeadId(pos)).Or(p.varHeadExpr).Step()
}

// var parses a VarHead followed by zero or more additional VarSuffix
// links.
func (p *parser) var_(pos int) parsec.Step[Var] {
	return parsec.Map(
		parsec.ThenZip(p.varBase(pos), p.varSuffixes),
		func(pair parsec.Pair[Var, []VarSuffix]) Var {
			v := pair.First
			v.Tail = append(v.Tail, pair.Second...)
			return v
		},
	)
}

// varOrExprHead parses VarOrExpr: a fully-formed Var (only committed if
// it parses through its terminal Suffix), else a parenthesised
// expression. The result is carried in a FnCall shell so [fnCall] and
// [prefixExprAtom] can attach trailing NameArgs uniformly.
func (p *parser) varOrExprHead(pos int) parsec.Step[FnCall] {
	asVar := func(pos int) parsec.Step[FnCall] {
		return parsec.Map(p.var_(pos), func(v Var) FnCall { return FnCall{HeadVar: &v} })
	}
	asParen := func(pos int) parsec.Step[FnCall] {
		return parsec.Map(p.parenExpr(pos), func(e Expression) FnCall { return FnCall{HeadExpr: e} })
	}
	return parsec.OrFrom(pos, asVar(pos)).Or(asParen).Step()
}

func (p *parser) nameArgsList(pos int) parsec.Step[[]NameArgs] {
	return parsec.ZeroOrMore(pos, p.nameArgs)
}

// fnCall parses VarOrExpr followed by one or more NameArgs — the final
// element of the chain must be call arguments.
func (p *parser) fnCall(pos int) parsec.Step[FnCall] {
	return parsec.Map(
		parsec.ThenZip(p.varOrExprHead(pos), func(pos int) parsec.Step[[]NameArgs] {
			return parsec.OneOrMore(pos, p.nameArgs)
		}),
		func(pair parsec.Pair[FnCall, []NameArgs]) FnCall {
			fc := pair.First
			fc.Calls = pair.Second
			return fc
		},
	)
}

// prefixExprAtom parses a VarOrExpr followed by any number (including
// zero) of trailing NameArgs, producing the [Expression] it denotes: a
// bare Var, a call, or (with a parenthesised head and no calls) the
// parenthesised expression itself.
func (p *parser) prefixExprAtom(pos int) parsec.Step[Expression] {
	return parsec.Map(
		parsec.ThenZip(p.varOrExprHead(pos), p.nameArgsList),
		func(pair parsec.Pair[FnCall, []NameArgs]) Expression {
			head, calls := pair.First, pair.Second
			if len(calls) == 0 {
				switch {
				case head.HeadVar != nil:
					return PrefixExpr{Var: head.HeadVar}
				default:
					return PrefixExpr{Paren: head.HeadExpr}
				}
			}
			head.Calls = calls
			return PrefixExpr{FnCall: &head}
		},
	)
}
