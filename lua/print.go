// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an AST back into Lua 5.4 source text. Parsing the result
// reproduces the original tree modulo whitespace, comments, string-quote
// style, and numeral spelling within the tolerance of the declared
// [NumberKind]: parenthesisation and table-field order are preserved
// exactly rather than reconstructed from operator precedence, since both
// are already explicit in the tree ([PrefixExpr.Paren] for a
// parenthesised expression, [Field] order for a table constructor). A
// binary expression's operands are printed with no added parentheses at
// all: the flat-sequence precedence folder in [fold] guarantees that
// doing so reproduces the exact operator/atom sequence [fold] itself
// consumed, so re-folding it yields back an identical tree.
func Print(b Block) string {
	pr := &printer{sb: new(strings.Builder)}
	pr.block(b)
	return pr.sb.String()
}

type printer struct {
	sb     *strings.Builder
	indent int
}

func (pr *printer) writeIndent() {
	for i := 0; i < pr.indent; i++ {
		pr.sb.WriteString("  ")
	}
}

func (pr *printer) indentedBlock(b Block) {
	pr.indent++
	pr.block(b)
	pr.indent--
}

func (pr *printer) block(b Block) {
	for _, s := range b.Statements {
		pr.writeIndent()
		pr.statement(s)
		pr.sb.WriteByte('\n')
	}
	if b.Return != nil {
		pr.writeIndent()
		pr.sb.WriteString("return")
		if len(b.Return.Expressions) > 0 {
			pr.sb.WriteByte(' ')
			pr.exprList(b.Return.Expressions)
		}
		pr.sb.WriteByte('\n')
	}
}

func (pr *printer) statement(s Statement) {
	switch s := s.(type) {
	case EmptyStatement:
		pr.sb.WriteByte(';')
	case AssignmentStatement:
		pr.varList(s.Targets)
		pr.sb.WriteString(" = ")
		pr.exprList(s.Values)
	case CallStatement:
		pr.fnCall(s.Call)
	case LabelStatement:
		pr.sb.WriteString("::")
		pr.sb.WriteString(s.Name.Name)
		pr.sb.WriteString("::")
	case BreakStatement:
		pr.sb.WriteString("break")
	case GotoStatement:
		pr.sb.WriteString("goto ")
		pr.sb.WriteString(s.Label.Name)
	case DoStatement:
		pr.sb.WriteString("do\n")
		pr.indentedBlock(s.Body)
		pr.writeIndent()
		pr.sb.WriteString("end")
	case WhileStatement:
		pr.sb.WriteString("while ")
		pr.expr(s.Condition)
		pr.sb.WriteString(" do\n")
		pr.indentedBlock(s.Body)
		pr.writeIndent()
		pr.sb.WriteString("end")
	case RepeatStatement:
		pr.sb.WriteString("repeat\n")
		pr.indentedBlock(s.Body)
		pr.writeIndent()
		pr.sb.WriteString("until ")
		pr.expr(s.Condition)
	case IfStatement:
		pr.ifStatement(s)
	case ForStatement:
		pr.forStatement(s)
	case FnDefStatement:
		pr.sb.WriteString("function ")
		pr.fnName(s.Name)
		pr.fnBody(s.Params, s.Body)
	case LocalFnDefStatement:
		pr.sb.WriteString("local function ")
		pr.sb.WriteString(s.Name.Name)
		pr.fnBody(s.Params, s.Body)
	case LocalAttrNamesStatement:
		pr.sb.WriteString("local ")
		pr.attrNameList(s.Names)
		if s.Values != nil {
			pr.sb.WriteString(" = ")
			pr.exprList(s.Values)
		}
	}
}

func (pr *printer) ifStatement(s IfStatement) {
	pr.sb.WriteString("if ")
	pr.expr(s.Condition)
	pr.sb.WriteString(" then\n")
	pr.indentedBlock(s.Body)
	for _, ei := range s.ElseIfs {
		pr.writeIndent()
		pr.sb.WriteString("elseif ")
		pr.expr(ei.Condition)
		pr.sb.WriteString(" then\n")
		pr.indentedBlock(ei.Body)
	}
	if s.Else != nil {
		pr.writeIndent()
		pr.sb.WriteString("else\n")
		pr.indentedBlock(*s.Else)
	}
	pr.writeIndent()
	pr.sb.WriteString("end")
}

func (pr *printer) forStatement(s ForStatement) {
	switch {
	case s.Plain != nil:
		pf := s.Plain
		pr.sb.WriteString("for ")
		pr.sb.WriteString(pf.Name.Name)
		pr.sb.WriteString(" = ")
		pr.expr(pf.Init)
		pr.sb.WriteString(", ")
		pr.expr(pf.Border)
		if pf.Step != nil {
			pr.sb.WriteString(", ")
			pr.expr(pf.Step)
		}
		pr.sb.WriteString(" do\n")
		pr.indentedBlock(pf.Body)
		pr.writeIndent()
		pr.sb.WriteString("end")
	case s.Col != nil:
		cf := s.Col
		pr.sb.WriteString("for ")
		pr.idList(cf.Names)
		pr.sb.WriteString(" in ")
		pr.exprList(cf.Expressions)
		pr.sb.WriteString(" do\n")
		pr.indentedBlock(cf.Body)
		pr.writeIndent()
		pr.sb.WriteString("end")
	}
}

// fnBody prints the "(params) block end" tail shared by function
// declarations and function expressions, given a position just past
// where the leading "function" keyword (and any name) was written.
func (pr *printer) fnBody(params FnParams, body Block) {
	pr.sb.WriteByte('(')
	pr.fnParams(params)
	pr.sb.WriteString(")\n")
	pr.indentedBlock(body)
	pr.writeIndent()
	pr.sb.WriteString("end")
}

func (pr *printer) fnParams(params FnParams) {
	for i, name := range params.Names {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		pr.sb.WriteString(name.Name)
	}
	if params.HasVarArgs {
		if len(params.Names) > 0 {
			pr.sb.WriteString(", ")
		}
		pr.sb.WriteString("...")
	}
}

func (pr *printer) fnName(n FnName) {
	for i, id := range n.Names {
		if i > 0 {
			pr.sb.WriteByte('.')
		}
		pr.sb.WriteString(id.Name)
	}
	if n.Last != nil {
		pr.sb.WriteByte(':')
		pr.sb.WriteString(n.Last.Name)
	}
}

func (pr *printer) attrNameList(names []AttrName) {
	for i, n := range names {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		pr.sb.WriteString(n.Name.Name)
		if n.Attr != nil {
			pr.sb.WriteByte('<')
			pr.sb.WriteString(n.Attr.Name)
			pr.sb.WriteByte('>')
		}
	}
}

func (pr *printer) idList(ids []Id) {
	for i, id := range ids {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		pr.sb.WriteString(id.Name)
	}
}

func (pr *printer) varList(vars []Var) {
	for i, v := range vars {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		pr.var_(v)
	}
}

func (pr *printer) exprList(exprs []Expression) {
	for i, e := range exprs {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		pr.expr(e)
	}
}

func (pr *printer) var_(v Var) {
	switch {
	case v.HeadId != nil:
		pr.sb.WriteString(v.HeadId.Name)
	default:
		pr.sb.WriteByte('(')
		pr.expr(v.HeadExpr)
		pr.sb.WriteByte(')')
	}
	for _, t := range v.Tail {
		pr.varSuffix(t)
	}
}

func (pr *printer) varSuffix(vs VarSuffix) {
	for _, na := range vs.Calls {
		pr.nameArgs(na)
	}
	pr.suffix(vs.Suffix)
}

func (pr *printer) suffix(s Suffix) {
	switch {
	case s.Id != nil:
		pr.sb.WriteByte('.')
		pr.sb.WriteString(s.Id.Name)
	default:
		pr.sb.WriteByte('[')
		pr.expr(s.Expr)
		pr.sb.WriteByte(']')
	}
}

func (pr *printer) nameArgs(na NameArgs) {
	if na.Method != nil {
		pr.sb.WriteByte(':')
		pr.sb.WriteString(na.Method.Name)
	}
	pr.args(na.Args)
}

// args prints a call's argument list in whichever of Lua's three
// call-site forms it was parsed from. The table-constructor and bare
// string forms must be printed without surrounding parentheses: adding
// them would reparse as a parenthesised expression-list call instead,
// a different [Args] shape than the one being printed.
func (pr *printer) args(a Args) {
	switch {
	case a.Constructor != nil:
		pr.tableConstructor(*a.Constructor)
	case a.String != nil:
		pr.sb.WriteString(quoteText(a.String.Value))
	default:
		pr.sb.WriteByte('(')
		pr.exprList(a.Expressions)
		pr.sb.WriteByte(')')
	}
}

func (pr *printer) fnCall(fc FnCall) {
	switch {
	case fc.HeadVar != nil:
		pr.var_(*fc.HeadVar)
	default:
		pr.sb.WriteByte('(')
		pr.expr(fc.HeadExpr)
		pr.sb.WriteByte(')')
	}
	for _, na := range fc.Calls {
		pr.nameArgs(na)
	}
}

func (pr *printer) prefixExpr(pe PrefixExpr) {
	switch {
	case pe.Var != nil:
		pr.var_(*pe.Var)
	case pe.FnCall != nil:
		pr.fnCall(*pe.FnCall)
	default:
		pr.sb.WriteByte('(')
		pr.expr(pe.Paren)
		pr.sb.WriteByte(')')
	}
}

func (pr *printer) tableConstructor(t TableConstructor) {
	pr.sb.WriteByte('{')
	for i, f := range t.Fields {
		if i > 0 {
			pr.sb.WriteString(", ")
		}
		pr.field(f)
	}
	pr.sb.WriteByte('}')
}

func (pr *printer) field(f Field) {
	switch {
	case f.Key == nil:
		pr.expr(f.Value)
	case f.Key.Id != nil:
		pr.sb.WriteString(f.Key.Id.Name)
		pr.sb.WriteString(" = ")
		pr.expr(f.Value)
	default:
		pr.sb.WriteByte('[')
		pr.expr(f.Key.Expr)
		pr.sb.WriteString("] = ")
		pr.expr(f.Value)
	}
}

func (pr *printer) expr(e Expression) {
	switch e := e.(type) {
	case NilExpr:
		pr.sb.WriteString("nil")
	case TrueExpr:
		pr.sb.WriteString("true")
	case FalseExpr:
		pr.sb.WriteString("false")
	case VarArgsExpr:
		pr.sb.WriteString("...")
	case NumberExpr:
		pr.sb.WriteString(formatNumber(e.Number))
	case TextExpr:
		pr.sb.WriteString(quoteText(e.Text.Value))
	case FnDefExpr:
		pr.sb.WriteString("function")
		pr.fnBody(e.Params, e.Body)
	case PrefixExpr:
		pr.prefixExpr(e)
	case TableConstructorExpr:
		pr.tableConstructor(e.Table)
	case UnaryExpr:
		pr.sb.WriteString(unaryOpText[e.Op])
		pr.expr(e.Inner)
	case BinaryExpr:
		pr.expr(e.Left)
		pr.sb.WriteByte(' ')
		pr.sb.WriteString(binaryOpText[e.Op])
		pr.sb.WriteByte(' ')
		pr.expr(e.Right)
	}
}

// formatNumber renders a [Number] in the surface syntax matching its
// [NumberKind], so re-lexing classifies it the same way. Hex and binary
// literals are formatted from the unsigned bit pattern, since a literal
// like 0xFFFFFFFFFFFFFFFF decodes to a negative int64 whose signed
// decimal form ("-1") is not valid inside either prefix.
func formatNumber(n Number) string {
	switch n.Kind {
	case HexNumber:
		return "0x" + strconv.FormatUint(uint64(n.Int), 16)
	case BinaryNumber:
		return "0b" + strconv.FormatUint(uint64(n.Int), 2)
	case FloatNumber:
		return formatFloat(n.Float)
	default:
		return strconv.FormatInt(n.Int, 10)
	}
}

// formatFloat renders f so it always lexes back as a float numeral:
// strconv's shortest "g" form omits both a radix point and an exponent
// for round values (e.g. 2.0 formats as "2"), which would otherwise
// relex as an integer literal.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quoteText renders s as a double-quoted Lua string literal. Control
// bytes without a named escape are written as zero-padded decimal
// escapes (byte 1 is "\001", not "\1") since Lua's decimal byte escape
// greedily consumes up to three digits: an unpadded escape followed by
// an ordinary digit character would decode as a different byte.
func quoteText(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&sb, `\%03d`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
