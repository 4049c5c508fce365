// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// block parses a sequence of statements, optionally terminated by a
// return statement.
func (p *parser) block(pos int) parsec.Step[Block] {
	return parsec.Map(
		parsec.ThenZip(parsec.ZeroOrMore(pos, p.statement), p.returnStatement),
		func(pair parsec.Pair[[]Statement, *ReturnStatement]) Block {
			return Block{Statements: pair.First, Return: pair.Second}
		},
	)
}

// returnStatement parses an optional "return [exprlist] [;]" clause.
//
// The leading "return" keyword is checked with [orNoneEOF] rather than
// [parsec.OrNone]: a chunk or block with no trailing return statement at
// all (the ordinary case) ends exactly at the token stream's end, where
// a plain keyword check reports ReachedEOF rather than Fail, and
// [parsec.OrNone] does not treat that as "absent".
func (p *parser) returnStatement(pos int) parsec.Step[*ReturnStatement] {
	withReturn := func(pos int) parsec.Step[ReturnStatement] {
		exprs := parsec.ThenOrDefault(p.kind(lualex.ReturnToken)(pos), p.exprList)
		withSemi := parsec.ThenOrNoneZip(exprs, func(pos int) parsec.Step[token] {
			return p.kind(lualex.SemiToken)(pos)
		})
		return parsec.Map(withSemi, func(pair parsec.Pair[[]Expression, *token]) ReturnStatement {
			return ReturnStatement{Expressions: pair.First}
		})
	}
	return orNoneEOF(pos, withReturn)
}

// statement parses one statement, trying each alternative in the order
// Lua's grammar requires for correct disambiguation: assignment must be
// tried before a bare call (both start with the same prefix expression),
// and plain numeric for must be tried before generic for (both start
// with "for id", diverging only at the token after the name).
// statement never hard-errors on a complete mismatch — it simply Fails,
// since it is always tried inside [block]'s repetition, where running out
// of statements (reaching "end", "until", "else", "return", or the end of
// the chunk) is the normal, expected way for the loop to stop.
func (p *parser) statement(pos int) parsec.Step[Statement] {
	return parsec.OrFrom(pos, p.emptyStatement(pos)).
		Or(p.assignmentOrCallStatement).
		Or(p.labelStatement).
		Or(p.breakStatement).
		Or(p.gotoStatement).
		Or(p.doStatement).
		Or(p.whileStatement).
		Or(p.repeatStatement).
		Or(p.ifStatement).
		Or(p.forStatement).
		Or(p.fnDefStatement).
		Or(p.localFnDefStatement).
		Or(p.localAttrNamesStatement).
		Step()
}

func (p *parser) emptyStatement(pos int) parsec.Step[Statement] {
	return parsec.Map(p.kind(lualex.SemiToken)(pos), func(token) Statement { return EmptyStatement{} })
}

// assignmentOrCallStatement parses a var-headed statement: either
// "varlist = exprlist" or a bare function call. Both begin with the same
// ambiguous prefix-expression grammar, so assignment (the more specific
// shape) is tried first.
func (p *parser) assignmentOrCallStatement(pos int) parsec.Step[Statement] {
	return parsec.OrFrom(pos, p.assignmentStatement(pos)).Or(p.callStatement).Step()
}

func (p *parser) assignmentStatement(pos int) parsec.Step[Statement] {
	targets := parsec.Merge(parsec.ThenMultiZip(p.var_(pos), func(pos int) parsec.Step[Var] {
		return parsec.Then(p.kind(lualex.CommaToken)(pos), p.var_)
	}))
	withEq := parsec.ThenSkip(targets, p.kind(lualex.AssignToken))
	return parsec.Map(
		parsec.ThenZip(withEq, p.exprList),
		func(pair parsec.Pair[[]Var, []Expression]) Statement {
			return AssignmentStatement{Targets: pair.First, Values: pair.Second}
		},
	)
}

func (p *parser) callStatement(pos int) parsec.Step[Statement] {
	return parsec.Map(p.fnCall(pos), func(c FnCall) Statement { return CallStatement{Call: c} })
}

func (p *parser) labelStatement(pos int) parsec.Step[Statement] {
	return parsec.Map(
		parsec.ThenSkip(parsec.Then(p.kind(lualex.LabelToken)(pos), p.id), p.kind(lualex.LabelToken)),
		func(id Id) Statement { return LabelStatement{Name: id} },
	)
}

func (p *parser) breakStatement(pos int) parsec.Step[Statement] {
	return parsec.Map(p.kind(lualex.BreakToken)(pos), func(token) Statement { return BreakStatement{} })
}

func (p *parser) gotoStatement(pos int) parsec.Step[Statement] {
	return parsec.Map(
		parsec.Then(p.kind(lualex.GotoToken)(pos), p.id),
		func(id Id) Statement { return GotoStatement{Label: id} },
	)
}

func (p *parser) doStatement(pos int) parsec.Step[Statement] {
	return parsec.Map(
		parsec.ThenSkip(parsec.Then(p.kind(lualex.DoToken)(pos), p.block), p.kind(lualex.EndToken)),
		func(b Block) Statement { return DoStatement{Body: b} },
	)
}

func (p *parser) whileStatement(pos int) parsec.Step[Statement] {
	cond := parsec.ThenSkip(parsec.Then(p.kind(lualex.WhileToken)(pos), p.expr), p.kind(lualex.DoToken))
	return parsec.Map(
		parsec.ThenSkip(parsec.ThenZip(cond, p.block), p.kind(lualex.EndToken)),
		func(pair parsec.Pair[Expression, Block]) Statement {
			return WhileStatement{Condition: pair.First, Body: pair.Second}
		},
	)
}

func (p *parser) repeatStatement(pos int) parsec.Step[Statement] {
	body := parsec.Then(p.kind(lualex.RepeatToken)(pos), p.block)
	return parsec.Map(
		parsec.ThenZip(body, func(pos int) parsec.Step[Expression] {
			return parsec.Then(p.kind(lualex.UntilToken)(pos), p.expr)
		}),
		func(pair parsec.Pair[Block, Expression]) Statement {
			return RepeatStatement{Body: pair.First, Condition: pair.Second}
		},
	)
}

// ifClause parses the shared "expr then block" shape used by both the
// leading "if" clause and each "elseif" clause, given a position just
// past the leading keyword.
func (p *parser) ifClause(pos int) parsec.Step[ElseIf] {
	cond := parsec.ThenSkip(p.expr(pos), p.kind(lualex.ThenToken))
	return parsec.Map(
		parsec.ThenZip(cond, p.block),
		func(pair parsec.Pair[Expression, Block]) ElseIf {
			return ElseIf{Condition: pair.First, Body: pair.Second}
		},
	)
}

func (p *parser) ifStatement(pos int) parsec.Step[Statement] {
	head := parsec.Then(p.kind(lualex.IfToken)(pos), p.ifClause)
	elseifs := func(pos int) parsec.Step[[]ElseIf] {
		return parsec.ZeroOrMore(pos, func(pos int) parsec.Step[ElseIf] {
			return parsec.Then(p.kind(lualex.ElseifToken)(pos), p.ifClause)
		})
	}
	withElseifs := parsec.ThenZip(head, elseifs)
	elseBlock := func(pos int) parsec.Step[*Block] {
		return orNoneEOF(pos, func(pos int) parsec.Step[Block] {
			return parsec.Then(p.kind(lualex.ElseToken)(pos), p.block)
		})
	}
	full := parsec.ThenZip(withElseifs, elseBlock)
	return parsec.Map(
		parsec.ThenSkip(full, p.kind(lualex.EndToken)),
		func(pair parsec.Pair[parsec.Pair[ElseIf, []ElseIf], *Block]) Statement {
			head, elseifs := pair.First.First, pair.First.Second
			return IfStatement{
				Condition: head.Condition,
				Body:      head.Body,
				ElseIfs:   elseifs,
				Else:      pair.Second,
			}
		},
	)
}

// forStatement disambiguates Lua's two for-loop forms. Both begin
// "for id"; the token immediately after the name commits the choice: "="
// means a plain numeric for, "," or "in" means a generic (ColFor) loop.
func (p *parser) forStatement(pos int) parsec.Step[Statement] {
	return parsec.OrFrom(pos, p.plainForStatement(pos)).Or(p.colForStatement).Step()
}

func (p *parser) plainForStatement(pos int) parsec.Step[Statement] {
	name := parsec.ThenSkip(
		parsec.Then(p.kind(lualex.ForToken)(pos), p.id),
		p.kind(lualex.AssignToken),
	)
	bounds := parsec.ThenZip(name, func(pos int) parsec.Step[parsec.Pair[Expression, Expression]] {
		init := parsec.ThenSkip(p.expr(pos), p.kind(lualex.CommaToken))
		return parsec.ThenZip(init, p.expr)
	})
	withStep := parsec.ThenZip(bounds, func(pos int) parsec.Step[*Expression] {
		return orNoneEOF(pos, func(pos int) parsec.Step[Expression] {
			return parsec.Then(p.kind(lualex.CommaToken)(pos), p.expr)
		})
	})
	withBody := parsec.ThenZip(withStep, func(pos int) parsec.Step[Block] {
		return parsec.ThenSkip(parsec.Then(p.kind(lualex.DoToken)(pos), p.block), p.kind(lualex.EndToken))
	})
	return parsec.Map(
		withBody,
		func(pair parsec.Pair[parsec.Pair[parsec.Pair[Id, parsec.Pair[Expression, Expression]], *Expression], Block]) Statement {
			head := pair.First.First
			name, bounds := head.First, head.Second
			var stepExpr Expression
			if pair.First.Second != nil {
				stepExpr = *pair.First.Second
			}
			return ForStatement{Plain: &PlainFor{
				Name:   name,
				Init:   bounds.First,
				Border: bounds.Second,
				Step:   stepExpr,
				Body:   pair.Second,
			}}
		},
	)
}

func (p *parser) colForStatement(pos int) parsec.Step[Statement] {
	names := parsec.ThenSkip(
		parsec.Then(p.kind(lualex.ForToken)(pos), p.idList),
		p.kind(lualex.InToken),
	)
	exprs := parsec.ThenZip(names, p.exprList)
	withDo := parsec.ThenSkip(exprs, p.kind(lualex.DoToken))
	return parsec.Map(
		parsec.ThenSkip(parsec.ThenZip(withDo, p.block), p.kind(lualex.EndToken)),
		func(pair parsec.Pair[parsec.Pair[[]Id, []Expression], Block]) Statement {
			return ForStatement{Col: &ColFor{
				Names:       pair.First.First,
				Expressions: pair.First.Second,
				Body:        pair.Second,
			}}
		},
	)
}

func (p *parser) fnDefStatement(pos int) parsec.Step[Statement] {
	name := parsec.Then(p.kind(lualex.FunctionToken)(pos), p.fnName)
	return parsec.Map(
		parsec.ThenZip(name, p.fnBody),
		func(pair parsec.Pair[FnName, fnBody]) Statement {
			return FnDefStatement{Name: pair.First, Params: pair.Second.params, Body: pair.Second.body}
		},
	)
}

func (p *parser) localFnDefStatement(pos int) parsec.Step[Statement] {
	head := parsec.Then(p.kind(lualex.LocalToken)(pos), func(pos int) parsec.Step[Id] {
		return parsec.Then(p.kind(lualex.FunctionToken)(pos), p.id)
	})
	return parsec.Map(
		parsec.ThenZip(head, p.fnBody),
		func(pair parsec.Pair[Id, fnBody]) Statement {
			return LocalFnDefStatement{Name: pair.First, Params: pair.Second.params, Body: pair.Second.body}
		},
	)
}

func (p *parser) localAttrNamesStatement(pos int) parsec.Step[Statement] {
	names := parsec.Then(p.kind(lualex.LocalToken)(pos), p.attrNameList)
	values := func(pos int) parsec.Step[[]Expression] {
		return parsec.Then(p.kind(lualex.AssignToken)(pos), p.exprList)
	}
	return parsec.Map(
		parsec.ThenOrDefaultZip(names, values, nil),
		func(pair parsec.Pair[[]AttrName, []Expression]) Statement {
			return LocalAttrNamesStatement{Names: pair.First, Values: pair.Second}
		},
	)
}
