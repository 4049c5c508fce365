// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// parser holds the token stream shared by every grammar function for one
// parse. The mutually recursive grammar functions in this package are
// methods on *parser taking a position; parser itself holds only the
// token stream, so the recursion lives in the call graph, not in any
// data structure.
type parser struct {
	stream *parsec.TokenStream[token]
}

func (p *parser) at(pos int) (token, error) {
	return p.stream.Token(pos)
}

// kind matches a single token of the given kind, producing the token
// itself.
func (p *parser) kind(k lualex.TokenKind) func(int) parsec.Step[token] {
	return func(pos int) parsec.Step[token] {
		tok, err := p.at(pos)
		if err != nil {
			return parsec.Err[token](err)
		}
		if tok.kind != k {
			return parsec.Fail[token](pos)
		}
		return parsec.Success(tok, pos+1)
	}
}

// id matches an identifier token, producing an [Id].
func (p *parser) id(pos int) parsec.Step[Id] {
	return parsec.Map(p.kind(lualex.IdentifierToken)(pos), token.id)
}

// numeral matches a numeral token, producing a [Number].
func (p *parser) numeral(pos int) parsec.Step[Number] {
	return parsec.Map(p.kind(lualex.NumeralToken)(pos), func(t token) Number { return t.number })
}

// text matches a string token, producing a [Text].
func (p *parser) text(pos int) parsec.Step[Text] {
	return parsec.Map(p.kind(lualex.StringToken)(pos), token.stringText)
}

// orNoneEOF runs g at pos, treating both a Fail and a ReachedEOF error
// as "absent" rather than a hard error, and leaving pos unchanged in
// either case. Plain [parsec.OrNone] only recognizes Fail: a g that
// checks for an optional trailing token right at the end of the token
// stream reports ReachedEOF instead, which OrNone would otherwise
// propagate as a fatal error rather than treat as a normal absence.
func orNoneEOF[T any](pos int, g func(pos int) parsec.Step[T]) parsec.Step[*T] {
	return parsec.TakeRight(parsec.ThenOrNoneZip(parsec.Success(struct{}{}, pos), g))
}
