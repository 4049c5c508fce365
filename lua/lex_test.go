// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package lua

import (
	"strings"
	"testing"
)

func TestStripShebang(t *testing.T) {
	const shebangLine = "#!/usr/bin/env lua"

	t.Run("NoShebang", func(t *testing.T) {
		const src = "return 1"
		if got := stripShebang(src); got != src {
			t.Errorf("stripShebang(%q) = %q; want unchanged", src, got)
		}
	})
	t.Run("Shebang", func(t *testing.T) {
		src := shebangLine + "\nreturn 1"
		want := strings.Repeat(" ", len(shebangLine)) + "\nreturn 1"
		if got := stripShebang(src); got != want {
			t.Errorf("stripShebang(%q) = %q; want %q", src, got, want)
		}
	})
	t.Run("ShebangNoNewline", func(t *testing.T) {
		want := strings.Repeat(" ", len(shebangLine))
		if got := stripShebang(shebangLine); got != want {
			t.Errorf("stripShebang(%q) = %q; want %q", shebangLine, got, want)
		}
	})
}

func TestClassifyNumber(t *testing.T) {
	tests := []struct {
		raw  string
		kind NumberKind
		i    int64
		f    float64
	}{
		{"42", IntNumber, 42, 0},
		{"0", IntNumber, 0, 0},
		{"3.14", FloatNumber, 0, 3.14},
		{"1e10", FloatNumber, 0, 1e10},
		{"0xBEBADA", HexNumber, 0xBEBADA, 0},
		{"0xFFFFFFFFFFFFFFFF", HexNumber, -1, 0},
		{"0b101", BinaryNumber, 5, 0},
		{"0x1p4", FloatNumber, 0, 16},
	}
	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			got, err := classifyNumber(test.raw)
			if err != nil {
				t.Fatalf("classifyNumber(%q): %v", test.raw, err)
			}
			if got.Kind != test.kind {
				t.Errorf("classifyNumber(%q).Kind = %v; want %v", test.raw, got.Kind, test.kind)
			}
			if test.kind == FloatNumber {
				if got.Float != test.f {
					t.Errorf("classifyNumber(%q).Float = %v; want %v", test.raw, got.Float, test.f)
				}
			} else if got.Int != test.i {
				t.Errorf("classifyNumber(%q).Int = %v; want %v", test.raw, got.Int, test.i)
			}
		})
	}
}
