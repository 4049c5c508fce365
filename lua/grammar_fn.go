// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// idList parses a comma-separated, non-empty list of identifiers.
func (p *parser) idList(pos int) parsec.Step[[]Id] {
	return parsec.Merge(parsec.ThenMultiZip(p.id(pos), func(pos int) parsec.Step[Id] {
		return parsec.Then(p.kind(lualex.CommaToken)(pos), p.id)
	}))
}

// params parses a function parameter list's contents (without the
// surrounding parens): a name list with an optional trailing ", ...",
// or a bare "...".
func (p *parser) params(pos int) parsec.Step[FnParams] {
	namesWithVarArgs := func(pos int) parsec.Step[FnParams] {
		varArgsTail := func(pos int) parsec.Step[token] {
			return parsec.Then(p.kind(lualex.CommaToken)(pos), p.kind(lualex.VarargToken))
		}
		return parsec.Map(
			parsec.ThenOrNoneZip(p.idList(pos), varArgsTail),
			func(pair parsec.Pair[[]Id, *token]) FnParams {
				return FnParams{Names: pair.First, HasVarArgs: pair.Second != nil}
			},
		)
	}
	bareVarArgs := func(pos int) parsec.Step[FnParams] {
		return parsec.Map(p.kind(lualex.VarargToken)(pos), func(token) FnParams {
			return FnParams{HasVarArgs: true}
		})
	}
	return parsec.OrFrom(pos, namesWithVarArgs(pos)).Or(bareVarArgs).Step()
}

// fnParams parses a full "(params)" parameter list, defaulting to an
// empty parameter list for "()".
func (p *parser) fnParams(pos int) parsec.Step[FnParams] {
	return parsec.ThenSkip(
		parsec.ThenOrDefault(p.kind(lualex.LParenToken)(pos), p.params),
		p.kind(lualex.RParenToken),
	)
}

// nameArgs parses one call-chain link: a call's arguments, optionally
// preceded by ":name" marking it a method call.
func (p *parser) nameArgs(pos int) parsec.Step[NameArgs] {
	method := func(pos int) parsec.Step[Id] {
		return parsec.Then(p.kind(lualex.ColonToken)(pos), p.id)
	}
	return parsec.Map(
		parsec.ThenZip(orNoneEOF(pos, method), p.args),
		func(pair parsec.Pair[*Id, Args]) NameArgs {
			return NameArgs{Method: pair.First, Args: pair.Second}
		},
	)
}

// args parses a call's argument list: a parenthesised expression list, a
// table constructor, or a bare string literal.
func (p *parser) args(pos int) parsec.Step[Args] {
	exprArgs := func(pos int) parsec.Step[Args] {
		return parsec.Map(
			parsec.ThenSkip(
				parsec.ThenOrDefault(p.kind(lualex.LParenToken)(pos), p.exprList),
				p.kind(lualex.RParenToken),
			),
			func(exprs []Expression) Args { return Args{Expressions: exprs} },
		)
	}
	constructorArgs := func(pos int) parsec.Step[Args] {
		return parsec.Map(p.tableConstructor(pos), func(t TableConstructor) Args {
			return Args{Constructor: &t}
		})
	}
	stringArgs := func(pos int) parsec.Step[Args] {
		return parsec.Map(p.text(pos), func(t Text) Args { return Args{String: &t} })
	}
	return parsec.OrFrom(pos, exprArgs(pos)).Or(constructorArgs).Or(stringArgs).Step()
}

// exprList parses a comma-separated, non-empty expression list; callers
// that allow an empty list (e.g. call arguments, return statements) wrap
// this with [parsec.ThenOrDefault].
func (p *parser) exprList(pos int) parsec.Step[[]Expression] {
	return parsec.Merge(parsec.ThenMultiZip(p.expr(pos), func(pos int) parsec.Step[Expression] {
		return parsec.Then(p.kind(lualex.CommaToken)(pos), p.expr)
	}))
}

// fnName parses a function declaration's dotted name, with an optional
// trailing ":method" component.
func (p *parser) fnName(pos int) parsec.Step[FnName] {
	dotted := parsec.Merge(parsec.ThenMultiZip(p.id(pos), func(pos int) parsec.Step[Id] {
		return parsec.Then(p.kind(lualex.DotToken)(pos), p.id)
	}))
	methodTail := func(pos int) parsec.Step[Id] {
		return parsec.Then(p.kind(lualex.ColonToken)(pos), p.id)
	}
	return parsec.Map(
		parsec.ThenOrNoneZip(dotted, methodTail),
		func(pair parsec.Pair[[]Id, *Id]) FnName {
			return FnName{Names: pair.First, Last: pair.Second}
		},
	)
}

// attrName parses a local-variable name with an optional "<attrib>"
// annotation.
func (p *parser) attrName(pos int) parsec.Step[AttrName] {
	attr := func(pos int) parsec.Step[Id] {
		return parsec.ThenSkip(
			parsec.Then(p.kind(lualex.LessToken)(pos), p.id),
			p.kind(lualex.GreaterToken),
		)
	}
	return parsec.Map(
		parsec.ThenOrNoneZip(p.id(pos), attr),
		func(pair parsec.Pair[Id, *Id]) AttrName {
			return AttrName{Name: pair.First, Attr: pair.Second}
		},
	)
}

func (p *parser) attrNameList(pos int) parsec.Step[[]AttrName] {
	return parsec.Merge(parsec.ThenMultiZip(p.attrName(pos), func(pos int) parsec.Step[AttrName] {
		return parsec.Then(p.kind(lualex.CommaToken)(pos), p.attrName)
	}))
}
