// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

// Package lua parses Lua 5.4 source text into an abstract syntax tree.
package lua

// Id is an identifier: a borrowed slice of the source naming a variable,
// field, or label.
type Id struct {
	Name string
}

// NumberKind distinguishes the lexical form a [Number] literal was
// written in, since Lua's own semantics (integer vs. float subtype,
// wraparound on overflow) depend on it.
type NumberKind int

const (
	// IntNumber is a decimal integer literal, e.g. "42".
	IntNumber NumberKind = iota
	// FloatNumber is a literal with a radix point or exponent, e.g.
	// "3.14", "1e10", or the hexadecimal "0x1p4".
	FloatNumber
	// HexNumber is a "0x"-prefixed literal with no radix point or
	// exponent, e.g. "0xBEBADA".
	HexNumber
	// BinaryNumber is a "0b"-prefixed literal, e.g. "0b101".
	BinaryNumber
)

// Number is a numeric literal, tagged with the lexical form it came from
// (see [NumberKind]) and carrying the decoded value. Exactly one of Int
// or Float is meaningful, selected by Kind.
type Number struct {
	Kind  NumberKind
	Int   int64
	Float float64
}

// Text is a string literal's unescaped body: a quoted string's escapes
// already decoded, or a long-bracket string's contents verbatim.
type Text struct {
	Value string
}

// UnaryOp is a Lua unary operator.
//
//go:generate go tool stringer -type=UnaryOp -linecomment
type UnaryOp int

const (
	Not   UnaryOp = iota // not
	Hash                 // #
	Minus                // -
	Tilde                // ~
)

// BinaryOp is a Lua binary operator, covering arithmetic, bitwise,
// comparison, logical, and concatenation operators.
//
//go:generate go tool stringer -type=BinaryOp -linecomment
type BinaryOp int

const (
	Add          BinaryOp = iota // +
	Sub                          // -
	Mul                          // *
	Div                          // /
	FloorDiv                     // //
	Mod                          // %
	Pow                          // ^
	Concat                       // ..
	Equal                        // ==
	NotEqual                     // ~=
	Less                         // <
	LessEqual                    // <=
	Greater                      // >
	GreaterEqual                 // >=
	And                          // and
	Or                           // or
	BitAnd                       // &
	BitOr                        // |
	BitXor                       // ~
	ShiftLeft                    // <<
	ShiftRight                   // >>
)

// Expression is any Lua expression node.
type Expression interface {
	expression()
}

// NilExpr is the literal "nil".
type NilExpr struct{}

// TrueExpr is the literal "true".
type TrueExpr struct{}

// FalseExpr is the literal "false".
type FalseExpr struct{}

// VarArgsExpr is the literal "...".
type VarArgsExpr struct{}

// NumberExpr wraps a [Number] literal.
type NumberExpr struct {
	Number Number
}

// TextExpr wraps a [Text] literal.
type TextExpr struct {
	Text Text
}

// FnDefExpr is an anonymous function literal.
type FnDefExpr struct {
	Params FnParams
	Body   Block
}

// PrefixExpr wraps a [Var] or [FnCall] used in expression position.
// Exactly one of Var, FnCall, or Paren is set. Paren holds a
// parenthesised expression with no trailing suffix — still a valid
// prefix expression in Lua, and kept distinct from its inner expression
// so the pretty-printer can re-emit the parentheses: dropping them would
// change the parse of anything printed back (e.g. "(1+2)*3").
type PrefixExpr struct {
	Var    *Var
	FnCall *FnCall
	Paren  Expression
}

// TableConstructorExpr wraps a [TableConstructor] used in expression
// position.
type TableConstructorExpr struct {
	Table TableConstructor
}

// UnaryExpr applies a unary operator to an operand.
type UnaryExpr struct {
	Op    UnaryOp
	Inner Expression
}

// BinaryExpr applies a binary operator. Produced by folding a flat
// atom/operator sequence with [fold]; never constructed directly by the
// grammar parsers.
type BinaryExpr struct {
	Left  Expression
	Op    BinaryOp
	Right Expression
}

func (NilExpr) expression()             {}
func (TrueExpr) expression()            {}
func (FalseExpr) expression()           {}
func (VarArgsExpr) expression()         {}
func (NumberExpr) expression()          {}
func (TextExpr) expression()            {}
func (FnDefExpr) expression()           {}
func (PrefixExpr) expression()          {}
func (TableConstructorExpr) expression() {}
func (UnaryExpr) expression()           {}
func (BinaryExpr) expression()          {}

// FieldKey is the key half of a keyed [Field]: either a computed
// expression key ("[e] = v") or an identifier key ("id = v").
type FieldKey struct {
	Expr Expression
	Id   *Id
}

// Field is one element of a [TableConstructor].
type Field struct {
	// Key is non-nil for a Pair field ("[e]=v" or "id=v"), nil for a
	// positional Value field.
	Key   *FieldKey
	Value Expression
}

// TableConstructor is an ordered list of table fields, "{ field, ... }".
type TableConstructor struct {
	Fields []Field
}

// Args is the argument list of a call, in one of Lua's three call-site
// forms.
type Args struct {
	Expressions []Expression
	Constructor *TableConstructor
	String      *Text
}

// NameArgs is one link of a call chain: a call's arguments, optionally
// preceded by ":name" marking it a method call.
type NameArgs struct {
	Method *Id
	Args   Args
}

// Suffix is a single field-access step: ".id" or "[expr]".
type Suffix struct {
	Expr Expression
	Id   *Id
}

// VarSuffix is zero-or-more call-like [NameArgs] followed by exactly one
// field-access [Suffix] — the shape that commits a suffix chain to being
// part of a [Var] rather than a [FnCall].
type VarSuffix struct {
	Calls  []NameArgs
	Suffix Suffix
}

// Var is a variable reference: either a bare identifier or a
// parenthesised expression, followed by zero or more [VarSuffix] steps.
type Var struct {
	// Head is either an Id or an Expression (for "(expr)" heads); exactly
	// one is set.
	HeadId   *Id
	HeadExpr Expression
	Tail     []VarSuffix
}

// FnCall is a function or method call: a [Var] or parenthesised
// [Expression] head, followed by one or more [NameArgs].
type FnCall struct {
	HeadVar  *Var
	HeadExpr Expression
	Calls    []NameArgs
}

// FnName is a function declaration's dotted name, with an optional
// trailing ":method" component. The method form is represented by a
// distinct identifier (Last) rather than a boolean flag, so the method
// name itself survives into the AST.
type FnName struct {
	Names []Id
	Last  *Id
}

// FnParams is a function's parameter list.
type FnParams struct {
	Names      []Id
	HasVarArgs bool
}

// AttrName is a local-variable name with an optional "<attrib>"
// annotation (e.g. "<const>" or "<close>").
type AttrName struct {
	Name Id
	Attr *Id
}

// Block is a sequence of statements, optionally ending in a return
// clause.
type Block struct {
	Statements []Statement
	// Return is non-nil if the block ends with a return statement.
	Return *ReturnStatement
}

// ReturnStatement is a block-terminating "return" clause.
type ReturnStatement struct {
	Expressions []Expression
}

// Statement is any Lua statement node.
type Statement interface {
	statement()
}

// EmptyStatement is a bare ";".
type EmptyStatement struct{}

// AssignmentStatement is "varlist = exprlist".
type AssignmentStatement struct {
	Targets []Var
	Values  []Expression
}

// CallStatement is a function or method call used as a statement.
type CallStatement struct {
	Call FnCall
}

// LabelStatement is "::id::".
type LabelStatement struct {
	Name Id
}

// BreakStatement is "break".
type BreakStatement struct{}

// GotoStatement is "goto id".
type GotoStatement struct {
	Label Id
}

// DoStatement is "do block end".
type DoStatement struct {
	Body Block
}

// WhileStatement is "while e do block end".
type WhileStatement struct {
	Condition Expression
	Body      Block
}

// RepeatStatement is "repeat block until e".
type RepeatStatement struct {
	Body      Block
	Condition Expression
}

// ElseIf is one "elseif e then block" clause.
type ElseIf struct {
	Condition Expression
	Body      Block
}

// IfStatement is "if e then block {elseif e then block} [else block] end".
type IfStatement struct {
	Condition Expression
	Body      Block
	ElseIfs   []ElseIf
	Else      *Block
}

// PlainFor is "for id = init, border [, step] do block end".
type PlainFor struct {
	Name   Id
	Init   Expression
	Border Expression
	Step   Expression
	Body   Block
}

// ColFor is "for namelist in explist do block end".
type ColFor struct {
	Names       []Id
	Expressions []Expression
	Body        Block
}

// ForStatement is either a [PlainFor] or a [ColFor]; exactly one is set.
type ForStatement struct {
	Plain *PlainFor
	Col   *ColFor
}

// FnDefStatement is "function name(params) block end".
type FnDefStatement struct {
	Name   FnName
	Params FnParams
	Body   Block
}

// LocalFnDefStatement is "local function id(params) block end".
type LocalFnDefStatement struct {
	Name   Id
	Params FnParams
	Body   Block
}

// LocalAttrNamesStatement is "local attnamelist [= exprlist]".
type LocalAttrNamesStatement struct {
	Names  []AttrName
	Values []Expression
}

func (EmptyStatement) statement()          {}
func (AssignmentStatement) statement()     {}
func (CallStatement) statement()           {}
func (LabelStatement) statement()          {}
func (BreakStatement) statement()          {}
func (GotoStatement) statement()           {}
func (DoStatement) statement()             {}
func (WhileStatement) statement()          {}
func (RepeatStatement) statement()         {}
func (IfStatement) statement()             {}
func (ForStatement) statement()            {}
func (FnDefStatement) statement()          {}
func (LocalFnDefStatement) statement()     {}
func (LocalAttrNamesStatement) statement() {}
