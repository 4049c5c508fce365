// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

// Package parsec is a small combinator-parser framework.
//
// A parser is any function of the shape func(pos int) Step[T]: given a
// position into some [TokenStream], it returns either a successful parse
// (with the value produced and the position just past what it consumed),
// a recoverable failure (backtracking only, carrying the furthest position
// reached), or an unrecoverable [error].
//
// Composition happens through the free functions in this package rather
// than methods on [Step], because a method cannot introduce the extra type
// parameter a transform like Map or ThenZip needs.
package parsec

// stepKind discriminates the three [Step] variants.
type stepKind int

const (
	stepSuccess stepKind = iota
	stepFail
	stepError
)

// Step is the result of attempting a parse from some position.
//
// The zero value is not a valid Step; construct one with [Success],
// [Fail], or [Err].
type Step[T any] struct {
	kind  stepKind
	value T
	pos   int
	err   error
}

// Success returns a Step recording that the parse consumed tokens up to
// (but not including) next and produced value.
func Success[T any](value T, next int) Step[T] {
	return Step[T]{kind: stepSuccess, value: value, pos: next}
}

// Fail returns a Step recording that no production matched.
// pos records the furthest position reached, for error reporting and for
// ordering alternatives; Fail never consumes tokens.
func Fail[T any](pos int) Step[T] {
	return Step[T]{kind: stepFail, pos: pos}
}

// Err returns a Step recording a non-recoverable parse error.
func Err[T any](err error) Step[T] {
	return Step[T]{kind: stepError, err: err}
}

// IsSuccess reports whether s is a [Success] step.
func (s Step[T]) IsSuccess() bool { return s.kind == stepSuccess }

// IsFail reports whether s is a [Fail] step.
func (s Step[T]) IsFail() bool { return s.kind == stepFail }

// IsError reports whether s is an [Err] step.
func (s Step[T]) IsError() bool { return s.kind == stepError }

// Value returns the value carried by a successful step.
// Value panics if s is not a Success step.
func (s Step[T]) Value() T {
	if s.kind != stepSuccess {
		panic("parsec: Value called on a non-Success Step")
	}
	return s.value
}

// Pos returns the position associated with s: for Success, the position
// just past what was consumed; for Fail, the furthest position reached.
// Pos panics if s is an Err step.
func (s Step[T]) Pos() int {
	if s.kind == stepError {
		panic("parsec: Pos called on an Err Step")
	}
	return s.pos
}

// Error returns the error carried by an Err step, or nil otherwise.
func (s Step[T]) Error() error {
	return s.err
}

// recast rewraps a Fail or Err step as a Step[U], carrying the same
// position or error. recast panics if s is a Success step — callers must
// check IsSuccess first, since there is no general T->U value conversion.
func recast[T, U any](s Step[T]) Step[U] {
	switch s.kind {
	case stepFail:
		return Fail[U](s.pos)
	case stepError:
		return Err[U](s.err)
	default:
		panic("parsec: recast called on a Success Step")
	}
}

// Map transforms the value of a successful step with f.
// Fail and Err steps pass through unchanged.
func Map[T, U any](s Step[T], f func(T) U) Step[U] {
	if !s.IsSuccess() {
		return recast[T, U](s)
	}
	return Success(f(s.Value()), s.pos)
}

// Then runs g from the position just past s, discarding s's value.
// Fail and Err steps (from s or from g) pass through.
func Then[T, U any](s Step[T], g func(pos int) Step[U]) Step[U] {
	if !s.IsSuccess() {
		return recast[T, U](s)
	}
	return g(s.pos)
}

// Pair is the value produced by [ThenZip] and related combinators.
type Pair[A, B any] struct {
	First  A
	Second B
}

// ThenZip runs g from the position just past s. If both succeed, the
// result pairs their values. Any failure or error short-circuits.
func ThenZip[T, U any](s Step[T], g func(pos int) Step[U]) Step[Pair[T, U]] {
	if !s.IsSuccess() {
		return recast[T, Pair[T, U]](s)
	}
	right := g(s.pos)
	if !right.IsSuccess() {
		return recast[U, Pair[T, U]](right)
	}
	return Success(Pair[T, U]{s.Value(), right.Value()}, right.pos)
}

// ThenSkip is like [ThenZip] but keeps only the left value.
func ThenSkip[T, U any](s Step[T], g func(pos int) Step[U]) Step[T] {
	return Map(ThenZip(s, g), func(p Pair[T, U]) T { return p.First })
}

// TakeLeft projects the first component of a pair produced by [ThenZip].
func TakeLeft[T, U any](s Step[Pair[T, U]]) Step[T] {
	return Map(s, func(p Pair[T, U]) T { return p.First })
}

// TakeRight projects the second component of a pair produced by [ThenZip].
func TakeRight[T, U any](s Step[Pair[T, U]]) Step[U] {
	return Map(s, func(p Pair[T, U]) U { return p.Second })
}

// ThenOrNoneZip runs g from the position just past s. If g fails or hits
// end of input (a [ReachedEOF] error), the second component is nil and
// the position does not advance past s. If g succeeds, the second
// component holds its value. Any other error propagates.
func ThenOrNoneZip[T, U any](s Step[T], g func(pos int) Step[U]) Step[Pair[T, *U]] {
	if !s.IsSuccess() {
		return recast[T, Pair[T, *U]](s)
	}
	right := g(s.pos)
	switch {
	case right.IsSuccess():
		v := right.Value()
		return Success(Pair[T, *U]{s.Value(), &v}, right.pos)
	case right.IsFail():
		return Success(Pair[T, *U]{s.Value(), nil}, s.pos)
	case IsReachedEOF(right.Error()):
		return Success(Pair[T, *U]{s.Value(), nil}, s.pos)
	default:
		return Err[Pair[T, *U]](right.Error())
	}
}

// ThenOrDefaultZip is like [ThenOrNoneZip], but substitutes def for the
// right component instead of nil when g does not succeed.
func ThenOrDefaultZip[T, U any](s Step[T], g func(pos int) Step[U], def U) Step[Pair[T, U]] {
	return Map(ThenOrNoneZip(s, g), func(p Pair[T, *U]) Pair[T, U] {
		if p.Second == nil {
			return Pair[T, U]{p.First, def}
		}
		return Pair[T, U]{p.First, *p.Second}
	})
}

// ThenOrVal runs g from the position just past s and takes only its
// (possibly defaulted) value, discarding s's value.
func ThenOrVal[T, U any](s Step[T], g func(pos int) Step[U], def U) Step[U] {
	return TakeRight(ThenOrDefaultZip(s, g, def))
}

// ThenOrDefault is [ThenOrVal] specialized to U's zero value.
func ThenOrDefault[T, U any](s Step[T], g func(pos int) Step[U]) Step[U] {
	var zero U
	return ThenOrVal(s, g, zero)
}

// Or runs alt from anchor if s failed to match (a Fail step only — Success
// and Err steps pass through unchanged). This is the primary backtracking
// point: ordered choice always restarts the alternative at the position
// the choice itself began at, never at whatever furthest position a Fail
// happens to carry.
func Or[T any](anchor int, s Step[T], alt func(pos int) Step[T]) Step[T] {
	if s.IsFail() {
		return alt(anchor)
	}
	return s
}

// Choice threads an anchor position through a chain of [Or] calls, so
// grammar code can write OrFrom(p, first(p)).Or(second).Or(third).Step()
// instead of re-supplying the anchor at every step.
type Choice[T any] struct {
	anchor int
	step   Step[T]
}

// OrFrom captures anchor as the position every subsequent Or alternative
// in the chain restarts from.
func OrFrom[T any](anchor int, s Step[T]) Choice[T] {
	return Choice[T]{anchor: anchor, step: s}
}

// Or tries alt (from the chain's anchor position) if the current step is
// a Fail.
func (c Choice[T]) Or(alt func(pos int) Step[T]) Choice[T] {
	return Choice[T]{anchor: c.anchor, step: Or(c.anchor, c.step, alt)}
}

// Step returns the chain's current result.
func (c Choice[T]) Step() Step[T] {
	return c.step
}

// Into promotes a remaining Fail to a decisive [FinishedOnFail] error.
// Use at the root of a chain of alternatives where a Fail signals that
// parsing cannot continue at all, rather than backtracking further.
func Into[T any](c Choice[T]) Step[T] {
	if c.step.IsFail() {
		return Err[T](&FinishedOnFail{})
	}
	return c.step
}

// OrNone turns a Fail step into a successful empty value without
// consuming input. Success and Err steps pass through, with Success's
// value wrapped in a non-nil pointer.
func OrNone[T any](s Step[T]) Step[*T] {
	switch {
	case s.IsSuccess():
		v := s.Value()
		return Success(&v, s.pos)
	case s.IsFail():
		return Success[*T](nil, s.pos)
	default:
		return Err[*T](s.Error())
	}
}

// Validate converts a successful step to an [FailedOnValidation] error if
// pred rejects its value. Fail and Err steps pass through unchanged.
func Validate[T any](s Step[T], pred func(T) error) Step[T] {
	if !s.IsSuccess() {
		return s
	}
	if err := pred(s.Value()); err != nil {
		return Err[T](&FailedOnValidation{Message: err.Error(), Pos: s.pos})
	}
	return s
}

// ThenMultiZip repeatedly applies g starting from the position just past
// s's first value, accumulating successes into a list, until g fails or
// runs off the end of the stream (a [ReachedEOF] error) — both end the
// repetition cleanly, keeping whatever was already accumulated — or hits
// some other error, which propagates and discards the accumulation. The
// result pairs s's original value with the accumulated list.
func ThenMultiZip[T any](s Step[T], g func(pos int) Step[T]) Step[Pair[T, []T]] {
	if !s.IsSuccess() {
		return recast[T, Pair[T, []T]](s)
	}
	first := s.Value()
	pos := s.pos
	var rest []T
	for {
		next := g(pos)
		if next.IsSuccess() {
			rest = append(rest, next.Value())
			pos = next.pos
			continue
		}
		if next.IsError() && !IsReachedEOF(next.Error()) {
			return Err[Pair[T, []T]](next.Error())
		}
		break
	}
	return Success(Pair[T, []T]{first, rest}, pos)
}

// Merge flattens the (first, rest) pair produced by [ThenMultiZip] into a
// single list, first-to-last.
func Merge[T any](s Step[Pair[T, []T]]) Step[[]T] {
	return Map(s, func(p Pair[T, []T]) []T {
		all := make([]T, 0, 1+len(p.Second))
		all = append(all, p.First)
		all = append(all, p.Second...)
		return all
	})
}
