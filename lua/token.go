// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import "go.parsit.dev/lua/internal/lualex"

// token is the element type of the token stream the grammar parsers
// consume. It wraps a lexed [lualex.Token] with the decoded [Number]
// value for numeral tokens, since the grammar needs the classified
// variant (Int/Float/Hex/Binary), not the raw digits.
type token struct {
	kind     lualex.TokenKind
	position lualex.Position
	text     string
	number   Number
}

func (t token) id() Id {
	return Id{Name: t.text}
}

func (t token) stringText() Text {
	return Text{Value: t.text}
}
