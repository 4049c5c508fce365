// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"fmt"
	"strings"

	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// UnreachedEOF reports that a chunk parsed successfully but left trailing
// source text unconsumed. It wraps [parsec.UnreachedEOF]'s bare token
// index with the lexed source [lualex.Position] of the offending token —
// populated by the lexer for every token in lex.go, but otherwise unused
// once the grammar layer only deals in token indices.
type UnreachedEOF struct {
	Position lualex.Position
	tokenPos int
}

func (e *UnreachedEOF) Error() string {
	return fmt.Sprintf("unconsumed input starting at %v", e.Position)
}

// Unwrap exposes the underlying [parsec.UnreachedEOF], so callers that
// only need the token-index form can still errors.As into it.
func (e *UnreachedEOF) Unwrap() error {
	return &parsec.UnreachedEOF{Pos: e.tokenPos}
}

// Offset translates Position back into a byte offset into source, for
// callers that only have the original source text and want to point at
// the same place [parsec.BadToken]'s Start/End already do (e.g. a CLI's
// caret printer). It reports false if Position does not name a valid
// line within source.
func (e *UnreachedEOF) Offset(source string) (int, bool) {
	if e.Position.Line < 1 {
		return 0, false
	}
	line, offset := 1, 0
	for line < e.Position.Line {
		i := strings.IndexByte(source[offset:], '\n')
		if i < 0 {
			return 0, false
		}
		offset += i + 1
		line++
	}
	col := e.Position.Column
	if col < 1 {
		col = 1
	}
	result := offset + col - 1
	if result < 0 || result > len(source) {
		return 0, false
	}
	return result, true
}

// wrapUnreachedEOF upgrades a bare [parsec.UnreachedEOF] into an
// [UnreachedEOF] carrying the offending token's lexed position, by
// looking the token index back up in stream. Any other error passes
// through unchanged.
func wrapUnreachedEOF(stream *parsec.TokenStream[token], err error) error {
	une, ok := err.(*parsec.UnreachedEOF)
	if !ok {
		return err
	}
	tok, tokErr := stream.Token(une.Pos)
	if tokErr != nil {
		return err
	}
	return &UnreachedEOF{Position: tok.position, tokenPos: une.Pos}
}
