// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"

	"go.parsit.dev/lua/sets"
)

// fileConfig is the shape of the optional JWCC (JSON-with-comments)
// config file. Every field is optional; flags and defaults take over
// when a field is absent.
type fileConfig struct {
	// CacheDir overrides the default parse-cache directory.
	CacheDir string `json:"cacheDir"`
	// DefaultFormat selects the "parse" subcommand's default output
	// format ("json" or "text") when --format is not given.
	DefaultFormat string `json:"defaultFormat"`
	// TrustedKeywordExtensions lists identifiers to accept as
	// additional statement keywords beyond standard Lua 5.4 (none by
	// default; reserved for embedders with dialect extensions).
	TrustedKeywordExtensions []string `json:"trustedKeywordExtensions"`
}

// loadConfig reads and merges the JWCC config file at path, if path is
// non-empty and the file exists. A missing file is not an error: the
// zero config is returned.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	huJSONData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: %v", err)
	}
	jsonData, err := hujson.Standardize(huJSONData)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %v", path, err)
	}
	if err := jsonv2.Unmarshal(jsonData, &cfg, jsonv2.RejectUnknownMembers(false)); err != nil {
		return cfg, fmt.Errorf("load config %s: %v", path, err)
	}
	return cfg, nil
}

// trustedExtensions returns the config's extension keyword list as a
// deduplicated set. The "parse" and "serve" subcommands only log it at
// debug level on startup; the grammar does not recognize any of these
// keywords.
func (c fileConfig) trustedExtensions() sets.Set[string] {
	return sets.New(c.TrustedKeywordExtensions...)
}
