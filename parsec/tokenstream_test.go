// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package parsec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenStreamTokenAndLen(t *testing.T) {
	ts := NewTokenStream("abc", []rune{'a', 'b', 'c'})
	if got := ts.Len(); got != 3 {
		t.Errorf("Len() = %d; want 3", got)
	}
	tok, err := ts.Token(1)
	if err != nil || tok != 'b' {
		t.Errorf("Token(1) = %q, %v; want 'b', nil", tok, err)
	}

	_, err = ts.Token(3)
	var eof *ReachedEOF
	if !errors.As(err, &eof) || eof.Pos != 3 {
		t.Errorf("Token(3) error = %v; want ReachedEOF{3}", err)
	}

	_, err = ts.Token(-1)
	if !errors.As(err, &eof) {
		t.Errorf("Token(-1) error = %v; want ReachedEOF", err)
	}
}

func TestZeroOrMore(t *testing.T) {
	ts := NewTokenStream("aaab", []rune{'a', 'a', 'a', 'b'})
	matchA := func(pos int) Step[rune] {
		tok, err := ts.Token(pos)
		if err != nil {
			return Err[rune](err)
		}
		if tok != 'a' {
			return Fail[rune](pos)
		}
		return Success(tok, pos+1)
	}

	got := ZeroOrMore(0, matchA)
	if !got.IsSuccess() {
		t.Fatalf("ZeroOrMore = %+v", got)
	}
	want := []rune{'a', 'a', 'a'}
	if diff := cmp.Diff(want, got.Value()); diff != "" {
		t.Errorf("ZeroOrMore value (-want +got):\n%s", diff)
	}
	if got.Pos() != 3 {
		t.Errorf("ZeroOrMore pos = %d; want 3", got.Pos())
	}
}

func TestZeroOrMoreNoMatchesIsEmptySuccess(t *testing.T) {
	ts := NewTokenStream("b", []rune{'b'})
	matchA := func(pos int) Step[rune] {
		tok, err := ts.Token(pos)
		if err != nil {
			return Err[rune](err)
		}
		if tok != 'a' {
			return Fail[rune](pos)
		}
		return Success(tok, pos+1)
	}
	got := ZeroOrMore(0, matchA)
	if !got.IsSuccess() || len(got.Value()) != 0 || got.Pos() != 0 {
		t.Errorf("ZeroOrMore(no match) = %+v; want empty Success at 0", got)
	}
}

func TestZeroOrMoreStopsAtEOFWithoutLosingPosition(t *testing.T) {
	// "aa" then end of input: a run of 2 matches, then a continuation
	// that reaches EOF, stops the repetition cleanly and keeps the
	// matches already accumulated rather than discarding them.
	ts := NewTokenStream("aa", []rune{'a', 'a'})
	matchA := func(pos int) Step[rune] {
		tok, err := ts.Token(pos)
		if err != nil {
			return Err[rune](err)
		}
		if tok != 'a' {
			return Fail[rune](pos)
		}
		return Success(tok, pos+1)
	}
	// Force EOF by matching past the stream's actual length.
	matchAnyIncludingEOF := func(pos int) Step[rune] {
		if pos >= 2 {
			return Err[rune](&ReachedEOF{Pos: pos})
		}
		return matchA(pos)
	}
	got := ZeroOrMore(0, matchAnyIncludingEOF)
	want := []rune{'a', 'a'}
	if !got.IsSuccess() {
		t.Fatalf("ZeroOrMore(EOF mid-run) = %+v; want Success", got)
	}
	if diff := cmp.Diff(want, got.Value()); diff != "" {
		t.Errorf("ZeroOrMore(EOF mid-run) value (-want +got):\n%s", diff)
	}
	if got.Pos() != 2 {
		t.Errorf("ZeroOrMore(EOF mid-run) pos = %d; want 2", got.Pos())
	}
}

func TestOneOrMoreRequiresAtLeastOne(t *testing.T) {
	ts := NewTokenStream("b", []rune{'b'})
	matchA := func(pos int) Step[rune] {
		tok, err := ts.Token(pos)
		if err != nil {
			return Err[rune](err)
		}
		if tok != 'a' {
			return Fail[rune](pos)
		}
		return Success(tok, pos+1)
	}
	got := OneOrMore(0, matchA)
	if !got.IsFail() || got.Pos() != 0 {
		t.Errorf("OneOrMore(no match) = %+v; want Fail(0)", got)
	}
}

func TestValidateEOF(t *testing.T) {
	ok := ValidateEOF(3, Success(1, 3))
	if !ok.IsSuccess() {
		t.Errorf("ValidateEOF(len=3, Success at 3) = %+v; want Success", ok)
	}

	short := ValidateEOF(3, Success(1, 2))
	var une *UnreachedEOF
	if !short.IsError() || !errors.As(short.Error(), &une) || une.Pos != 2 {
		t.Errorf("ValidateEOF(len=3, Success at 2) = %+v; want UnreachedEOF{2}", short)
	}

	f := ValidateEOF(3, Fail[int](1))
	if !f.IsFail() {
		t.Errorf("ValidateEOF passthrough of Fail = %+v", f)
	}
}
