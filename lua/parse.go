// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import "go.parsit.dev/lua/parsec"

// Parse parses a complete Lua 5.4 chunk and returns its abstract syntax
// tree. A leading "#!" line, if present, is skipped as Lua itself does.
//
// Errors returned are one of: [parsec.BadToken] for a lexical error, or
// [UnreachedEOF] when the chunk parses but leaves trailing tokens
// unconsumed (wrapping [parsec.UnreachedEOF] with the resolved source
// position of the first unconsumed token). block never Fails outright
// (an empty statement list is always a valid, if empty, block), so those
// are the only two shapes a failure takes.
func Parse(source string) (*Block, error) {
	stream, err := newTokenStream(source)
	if err != nil {
		return nil, err
	}
	p := &parser{stream: stream}
	step := parsec.ValidateEOF(stream.Len(), p.block(0))
	if step.IsError() {
		return nil, wrapUnreachedEOF(stream, step.Error())
	}
	b := step.Value()
	return &b, nil
}
