// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestTableConstructorShapes exercises fieldList's trailing separator
// being optional (absent, comma, or semicolon) and the empty table.
func TestTableConstructorShapes(t *testing.T) {
	tests := []struct {
		name   string
		source string
		fields int
	}{
		{"Empty", "return {}", 0},
		{"NoTrailingSep", "return {1, 2, 3}", 3},
		{"TrailingComma", "return {1, 2, 3,}", 3},
		{"TrailingSemi", "return {1, 2, 3;}", 3},
		{"SingleField", "return {1}", 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.source)
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.source, err)
			}
			table := got.Return.Expressions[0].(TableConstructorExpr).Table
			if len(table.Fields) != test.fields {
				t.Errorf("Parse(%q) produced %d fields; want %d", test.source, len(table.Fields), test.fields)
			}
		})
	}
}

// TestMethodCallAtEOF is a regression test for nameArgs's optional
// leading ":name" at the very end of the token stream (no trailing call
// after the last method name).
func TestMethodCallAtEOF(t *testing.T) {
	got, err := Parse("a:b()")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := &Block{Statements: []Statement{
		CallStatement{Call: FnCall{
			HeadVar: &Var{HeadId: &Id{Name: "a"}},
			Calls: []NameArgs{
				{Method: &Id{Name: "b"}, Args: Args{}},
			},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse(\"a:b()\") (-want +got):\n%s", diff)
	}
}

// TestIfStatementNoElseAtEOF is a regression test for ifStatement's
// elseBlock being optional, in an if statement that ends the input.
func TestIfStatementNoElseAtEOF(t *testing.T) {
	got, err := Parse("if x then y() end")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Statements[0].(IfStatement).Else != nil {
		t.Errorf("Parse(\"if x then y() end\") produced a non-nil Else clause")
	}
}

// TestPlainForNoStepAtEOF is a regression test for plainForStatement's
// optional step expression being absent, in a for statement that ends
// the input.
func TestPlainForNoStepAtEOF(t *testing.T) {
	got, err := Parse("for i=1,10 do end")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	pf := got.Statements[0].(ForStatement).Plain
	if pf == nil {
		t.Fatal("expected a PlainFor")
	}
	if pf.Step != nil {
		t.Errorf("Parse(\"for i=1,10 do end\") produced a non-nil Step")
	}
}

func TestShebangIsSkipped(t *testing.T) {
	got, err := Parse("#!/usr/bin/env lua\nreturn 1\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := &Block{Return: &ReturnStatement{Expressions: []Expression{
		NumberExpr{Number{Kind: IntNumber, Int: 1}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse (-want +got):\n%s", diff)
	}
}

func TestLongBracketStringAndComment(t *testing.T) {
	got, err := Parse("--[[ a comment ]]\nreturn [==[ text ]==]\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := &Block{Return: &ReturnStatement{Expressions: []Expression{
		TextExpr{Text{Value: " text "}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse (-want +got):\n%s", diff)
	}
}
