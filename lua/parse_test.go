// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.parsit.dev/lua/parsec"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *Block
	}{
		{
			name:   "ReturnArithmeticPrecedence",
			source: "return 1 + 2 * 3",
			want: &Block{Return: &ReturnStatement{Expressions: []Expression{
				BinaryExpr{
					Left: NumberExpr{Number{Kind: IntNumber, Int: 1}},
					Op:   Add,
					Right: BinaryExpr{
						Left:  NumberExpr{Number{Kind: IntNumber, Int: 2}},
						Op:    Mul,
						Right: NumberExpr{Number{Kind: IntNumber, Int: 3}},
					},
				},
			}}},
		},
		{
			name:   "PowIsRightAssociative",
			source: "return 2 ^ 3 ^ 2",
			want: &Block{Return: &ReturnStatement{Expressions: []Expression{
				BinaryExpr{
					Left: NumberExpr{Number{Kind: IntNumber, Int: 2}},
					Op:   Pow,
					Right: BinaryExpr{
						Left:  NumberExpr{Number{Kind: IntNumber, Int: 3}},
						Op:    Pow,
						Right: NumberExpr{Number{Kind: IntNumber, Int: 2}},
					},
				},
			}}},
		},
		{
			name:   "LocalConstAttrib",
			source: "local x<const> = 42",
			want: &Block{Statements: []Statement{
				LocalAttrNamesStatement{
					Names:  []AttrName{{Name: Id{Name: "x"}, Attr: &Id{Name: "const"}}},
					Values: []Expression{NumberExpr{Number{Kind: IntNumber, Int: 42}}},
				},
			}},
		},
		{
			name:   "NoTrailingReturn",
			source: "x = 1",
			want: &Block{Statements: []Statement{
				AssignmentStatement{
					Targets: []Var{{HeadId: &Id{Name: "x"}}},
					Values:  []Expression{NumberExpr{Number{Kind: IntNumber, Int: 1}}},
				},
			}},
		},
		{
			name:   "MethodCallChain",
			source: "a.b:c(1,2)",
			want: &Block{Statements: []Statement{
				CallStatement{Call: FnCall{
					HeadVar: &Var{
						HeadId: &Id{Name: "a"},
						Tail: []VarSuffix{
							{Suffix: Suffix{Id: &Id{Name: "b"}}},
						},
					},
					Calls: []NameArgs{
						{
							Method: &Id{Name: "c"},
							Args: Args{Expressions: []Expression{
								NumberExpr{Number{Kind: IntNumber, Int: 1}},
								NumberExpr{Number{Kind: IntNumber, Int: 2}},
							}},
						},
					},
				}},
			}},
		},
		{
			name:   "NumericForWithStep",
			source: "for i=1,10,2 do break end",
			want: &Block{Statements: []Statement{
				ForStatement{Plain: &PlainFor{
					Name:   Id{Name: "i"},
					Init:   NumberExpr{Number{Kind: IntNumber, Int: 1}},
					Border: NumberExpr{Number{Kind: IntNumber, Int: 10}},
					Step:   NumberExpr{Number{Kind: IntNumber, Int: 2}},
					Body:   Block{Statements: []Statement{BreakStatement{}}},
				}},
			}},
		},
		{
			name:   "TableConstructorFieldForms",
			source: `return { [true]="t", a="t", nil }`,
			want: &Block{Return: &ReturnStatement{Expressions: []Expression{
				TableConstructorExpr{Table: TableConstructor{Fields: []Field{
					{
						Key:   &FieldKey{Expr: TrueExpr{}},
						Value: TextExpr{Text{Value: "t"}},
					},
					{
						Key:   &FieldKey{Id: &Id{Name: "a"}},
						Value: TextExpr{Text{Value: "t"}},
					},
					{Value: NilExpr{}},
				}}},
			}}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.source)
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.source, err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(%q) (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(error) bool
	}{
		{
			name:   "ReturnWithNoExpression",
			source: "return",
			check:  func(err error) bool { return err == nil },
		},
		{
			name:   "TrailingGarbageAfterReturn",
			source: "return 1 junk",
			check: func(err error) bool {
				var e *parsec.UnreachedEOF
				return errors.As(err, &e)
			},
		},
		{
			name:   "UnterminatedLongBracket",
			source: "[[abc",
			check: func(err error) bool {
				var e *parsec.BadToken
				return errors.As(err, &e)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.source)
			if !test.check(err) {
				t.Errorf("Parse(%q) error = %v; did not match expectation", test.source, err)
			}
		})
	}
}

// TestParseUnreachedEOFPosition checks that a trailing-garbage error
// carries the lexed position of the first unconsumed token, not just a
// bare token index, and that it still unwraps to a [parsec.UnreachedEOF]
// for callers that only want that.
func TestParseUnreachedEOFPosition(t *testing.T) {
	_, err := Parse("return 1 2")
	var e *UnreachedEOF
	if !errors.As(err, &e) {
		t.Fatalf("Parse error = %v (%T); want *UnreachedEOF", err, err)
	}
	if e.Position.Line != 1 || e.Position.Column != 10 {
		t.Errorf("Position = %v; want 1:10", e.Position)
	}

	var wrapped *parsec.UnreachedEOF
	if !errors.As(err, &wrapped) {
		t.Errorf("errors.As(err, &parsec.UnreachedEOF) failed; want it to unwrap")
	}

	offset, ok := e.Offset("return 1 2")
	if !ok || offset != 9 {
		t.Errorf("Offset() = %d, %v; want 9, true", offset, ok)
	}
}

// TestParseNoTrailingReturnAtEOF is a regression test: returnStatement's
// leading "return" keyword check must treat running out of tokens as
// "absent," not as a hard error, since a chunk with no return statement at
// all is the ordinary case, not an edge case.
func TestParseNoTrailingReturnAtEOF(t *testing.T) {
	sources := []string{
		"",
		"x = 1",
		"do x = 1 end",
		"a.b:c(1,2)",
	}
	for _, src := range sources {
		if _, err := Parse(src); err != nil {
			t.Errorf("Parse(%q): %v", src, err)
		}
	}
}
