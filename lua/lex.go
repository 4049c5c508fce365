// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"errors"
	"io"
	"strings"

	"go.parsit.dev/lua/internal/lualex"
	"go.parsit.dev/lua/parsec"
)

// byteScanner adapts a string to [lualex.Scanner]'s io.ByteScanner
// requirement while tracking the current byte offset, so lex errors can
// report the exact source span that didn't lex.
type byteScanner struct {
	src string
	pos int
}

func (b *byteScanner) ReadByte() (byte, error) {
	if b.pos >= len(b.src) {
		return 0, io.EOF
	}
	c := b.src[b.pos]
	b.pos++
	return c, nil
}

func (b *byteScanner) UnreadByte() error {
	if b.pos == 0 {
		return errUnreadAtStart
	}
	b.pos--
	return nil
}

var errUnreadAtStart = errors.New("lua: UnreadByte at start of source")

// stripShebang blanks a leading "#!" line with spaces, preserving every
// byte offset and line number the rest of the source depends on.
func stripShebang(src string) string {
	if !strings.HasPrefix(src, "#!") {
		return src
	}
	end := strings.IndexByte(src, '\n')
	if end < 0 {
		end = len(src)
	}
	return strings.Repeat(" ", end) + src[end:]
}

// lex scans source into the token sequence the grammar parsers consume,
// classifying each numeral into its [NumberKind] variant. It returns a
// [parsec.BadToken] error on the first unrecognized character or
// unterminated literal.
func lex(source string) ([]token, error) {
	clean := stripShebang(source)
	bs := &byteScanner{src: clean}
	scanner := lualex.NewScanner(bs)

	var tokens []token
	for {
		start := bs.pos
		tok, err := scanner.Scan()
		if err != nil {
			if isLexEOF(err) {
				break
			}
			end := bs.pos
			if end <= start {
				end = len(clean)
			}
			return nil, &parsec.BadToken{
				Slice: clean[start:end],
				Start: start,
				End:   end,
			}
		}
		t := token{kind: tok.Kind, position: tok.Position, text: tok.Value}
		if tok.Kind == lualex.NumeralToken {
			n, err := classifyNumber(tok.Value)
			if err != nil {
				return nil, &parsec.BadToken{
					Slice: tok.Value,
					Start: start,
					End:   bs.pos,
				}
			}
			t.number = n
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func isLexEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// classifyNumber decodes a numeral's raw text into a [Number], tagging
// it with the lexical form ([NumberKind]) it was written in.
func classifyNumber(raw string) (Number, error) {
	switch {
	case strings.HasPrefix(raw, "0b") || strings.HasPrefix(raw, "0B"):
		i, err := lualex.ParseBinaryInt(raw)
		if err != nil {
			return Number{}, err
		}
		return Number{Kind: BinaryNumber, Int: i}, nil
	case strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X"):
		if strings.ContainsAny(raw, ".") || strings.ContainsAny(raw, "pP") {
			f, err := lualex.ParseNumber(raw)
			if err != nil {
				return Number{}, err
			}
			return Number{Kind: FloatNumber, Float: f}, nil
		}
		i, err := lualex.ParseInt(raw)
		if err != nil {
			return Number{}, err
		}
		return Number{Kind: HexNumber, Int: i}, nil
	case strings.ContainsAny(raw, ".eE"):
		f, err := lualex.ParseNumber(raw)
		if err != nil {
			return Number{}, err
		}
		return Number{Kind: FloatNumber, Float: f}, nil
	default:
		i, err := lualex.ParseInt(raw)
		if err != nil {
			return Number{}, err
		}
		return Number{Kind: IntNumber, Int: i}, nil
	}
}

// newTokenStream lexes source and wraps the result in a [parsec.TokenStream].
func newTokenStream(source string) (*parsec.TokenStream[token], error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	return parsec.NewTokenStream(source, toks), nil
}
