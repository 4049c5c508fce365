// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import "go.parsit.dev/lua/internal/lualex"

// bindingPower is one operator's (left, right) binding power pair, per
// Lua 5.4's documented operator precedence table. Equal left/right means
// left-associative; left > right means right-associative.
type bindingPower struct {
	left, right int
}

var binaryPriority = map[BinaryOp]bindingPower{
	Pow:          {14, 13},
	Mul:          {11, 11},
	Div:          {11, 11},
	FloorDiv:     {11, 11},
	Mod:          {11, 11},
	Add:          {10, 10},
	Sub:          {10, 10},
	Concat:       {9, 8},
	ShiftLeft:    {7, 7},
	ShiftRight:   {7, 7},
	BitAnd:       {6, 6},
	BitXor:       {5, 5},
	BitOr:        {4, 4},
	Less:         {3, 3},
	LessEqual:    {3, 3},
	Greater:      {3, 3},
	GreaterEqual: {3, 3},
	Equal:        {3, 3},
	NotEqual:     {3, 3},
	And:          {2, 2},
	Or:           {1, 1},
}

// binaryOpTokens maps a binary operator's token kind to its [BinaryOp],
// together with the keyword forms "and"/"or".
var binaryOpTokens = map[lualex.TokenKind]BinaryOp{
	lualex.PowToken:          Pow,
	lualex.MulToken:          Mul,
	lualex.DivToken:          Div,
	lualex.IntDivToken:       FloorDiv,
	lualex.ModToken:          Mod,
	lualex.AddToken:          Add,
	lualex.SubToken:          Sub,
	lualex.ConcatToken:       Concat,
	lualex.LShiftToken:       ShiftLeft,
	lualex.RShiftToken:       ShiftRight,
	lualex.BitAndToken:       BitAnd,
	lualex.BitXorToken:       BitXor,
	lualex.BitOrToken:        BitOr,
	lualex.LessToken:         Less,
	lualex.LessEqualToken:    LessEqual,
	lualex.GreaterToken:      Greater,
	lualex.GreaterEqualToken: GreaterEqual,
	lualex.EqualToken:        Equal,
	lualex.NotEqualToken:     NotEqual,
	lualex.AndToken:          And,
	lualex.OrToken:           Or,
}

var unaryOpTokens = map[lualex.TokenKind]UnaryOp{
	lualex.NotToken: Not,
	lualex.LenToken: Hash,
	lualex.SubToken: Minus,
	lualex.BitXorToken: Tilde,
}

// binaryOpText renders a [BinaryOp] as Lua surface syntax, for the
// pretty-printer.
var binaryOpText = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", FloorDiv: "//", Mod: "%", Pow: "^",
	Concat: "..", Equal: "==", NotEqual: "~=", Less: "<", LessEqual: "<=",
	Greater: ">", GreaterEqual: ">=", And: "and", Or: "or",
	BitAnd: "&", BitOr: "|", BitXor: "~", ShiftLeft: "<<", ShiftRight: ">>",
}

// unaryOpText renders a [UnaryOp] as Lua surface syntax, for the
// pretty-printer. Minus carries a trailing space so that two nested
// unary minuses ("- -x") never print adjacent, which would otherwise
// read back as the start of a "--" comment.
var unaryOpText = map[UnaryOp]string{
	Not: "not ", Hash: "#", Minus: "- ", Tilde: "~",
}
