// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// field parses one table-constructor field, trying the three shapes in
// order: "[expr] = expr", "id = expr", then a bare positional value.
func (p *parser) field(pos int) parsec.Step[Field] {
	return parsec.OrFrom(pos, p.fieldExprKey(pos)).
		Or(p.fieldIdKey).
		Or(p.fieldValue).
		Step()
}

func (p *parser) fieldExprKey(pos int) parsec.Step[Field] {
	keyStep := parsec.ThenSkip(
		parsec.Then(p.kind(lualex.LBracketToken)(pos), p.expr),
		p.kind(lualex.RBracketToken),
	)
	return parsec.Map(
		parsec.ThenZip(keyStep, func(pos int) parsec.Step[Expression] {
			return parsec.Then(p.kind(lualex.AssignToken)(pos), p.expr)
		}),
		func(pair parsec.Pair[Expression, Expression]) Field {
			k := pair.First
			return Field{Key: &FieldKey{Expr: k}, Value: pair.Second}
		},
	)
}

func (p *parser) fieldIdKey(pos int) parsec.Step[Field] {
	return parsec.Map(
		parsec.ThenZip(p.id(pos), func(pos int) parsec.Step[Expression] {
			return parsec.Then(p.kind(lualex.AssignToken)(pos), p.expr)
		}),
		func(pair parsec.Pair[Id, Expression]) Field {
			id := pair.First
			return Field{Key: &FieldKey{Id: &id}, Value: pair.Second}
		},
	)
}

func (p *parser) fieldValue(pos int) parsec.Step[Field] {
	return parsec.Map(p.expr(pos), func(e Expression) Field { return Field{Value: e} })
}

func (p *parser) fieldSep(pos int) parsec.Step[token] {
	return parsec.OrFrom(pos, p.kind(lualex.CommaToken)(pos)).Or(p.kind(lualex.SemiToken)).Step()
}

// fieldList parses a separator-delimited, possibly-empty field list
// with an optional trailing separator.
func (p *parser) fieldList(pos int) parsec.Step[[]Field] {
	rest := func(pos int) parsec.Step[Field] {
		return parsec.Then(p.fieldSep(pos), p.field)
	}
	withFields := parsec.ThenSkip(
		parsec.Merge(parsec.ThenMultiZip(p.field(pos), rest)),
		func(pos int) parsec.Step[*token] {
			return orNoneEOF(pos, p.fieldSep)
		},
	)
	return parsec.Or(pos, withFields, func(pos int) parsec.Step[[]Field] {
		return parsec.Success[[]Field](nil, pos)
	})
}

// tableConstructor parses "{ }" or "{ field (sep field)* sep? }".
func (p *parser) tableConstructor(pos int) parsec.Step[TableConstructor] {
	return parsec.Map(
		parsec.ThenSkip(
			parsec.Then(p.kind(lualex.LBraceToken)(pos), p.fieldList),
			p.kind(lualex.RBraceToken),
		),
		func(fields []Field) TableConstructor { return TableConstructor{Fields: fields} },
	)
}
