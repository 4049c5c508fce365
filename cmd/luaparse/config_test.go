// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	t.Run("NoPath", func(t *testing.T) {
		got, err := loadConfig("")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(fileConfig{}, got); diff != "" {
			t.Errorf("loadConfig(\"\") (-want +got):\n%s", diff)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		got, err := loadConfig(filepath.Join(t.TempDir(), "does-not-exist.jwcc"))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(fileConfig{}, got); diff != "" {
			t.Errorf("loadConfig on a missing file (-want +got):\n%s", diff)
		}
	})

	t.Run("JWCCWithComments", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.jwcc")
		const content = `{
			// cache goes on the big disk
			"cacheDir": "/var/cache/luaparse",
			"defaultFormat": "text",
		}`
		if err := os.WriteFile(path, []byte(content), 0o666); err != nil {
			t.Fatal(err)
		}

		got, err := loadConfig(path)
		if err != nil {
			t.Fatal(err)
		}
		want := fileConfig{CacheDir: "/var/cache/luaparse", DefaultFormat: "text"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("loadConfig(%q) (-want +got):\n%s", path, diff)
		}
	})
}
