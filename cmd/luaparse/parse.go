// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"zombiezen.com/go/log"

	"go.parsit.dev/lua/lua"
	"go.parsit.dev/lua/internal/parsecache"
	"go.parsit.dev/lua/parsec"
)

type parseOptions struct {
	format  string
	noCache bool
	files   []string
}

func newParseCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "parse [options] FILE [FILE...]",
		Short:                 "parse Lua source files and print their AST",
		DisableFlagsInUseLine: true,
		Args:                  cobra.MinimumNArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(parseOptions)
	c.Flags().StringVar(&opts.format, "format", "json", "output `format`: \"json\" or \"text\"")
	c.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the on-disk parse cache")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("format") && g.cfg.DefaultFormat != "" {
			opts.format = g.cfg.DefaultFormat
		}
		opts.files = args
		return runParse(cmd.Context(), g, opts)
	}
	return c
}

// parseResult is one file's outcome, collected so results can be printed
// in argument order even though parsing itself runs concurrently.
type parseResult struct {
	path     string
	source   string
	block    *lua.Block
	err      error
	duration time.Duration
	cacheHit bool
}

func runParse(ctx context.Context, g *globalConfig, opts *parseOptions) error {
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("unknown --format %q (want \"json\" or \"text\")", opts.format)
	}

	logTrustedExtensions(ctx, g)

	var cache *parsecache.Cache
	if !opts.noCache {
		var err error
		cache, err = parsecache.Open(ctx, filepath.Join(g.cacheDir, "cache.db"), filepath.Join(g.cacheDir, "blobs"))
		if err != nil {
			log.Warnf(ctx, "parse cache unavailable, continuing without it: %v", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	results := make([]parseResult, len(opts.files))
	grp, grpCtx := errgroup.WithContext(ctx)
	for i, path := range opts.files {
		grp.Go(func() error {
			results[i] = parseOneFile(grpCtx, cache, path)
			return nil
		})
	}
	// The group's error is always nil: per-file failures are carried in
	// results so every file gets a report, not just the first to fail.
	grp.Wait()

	failed := false
	colorize := opts.format == "text" && term.IsTerminal(int(os.Stdout.Fd()))
	for _, r := range results {
		if r.err != nil {
			failed = true
		}
		printResult(os.Stdout, r, opts.format, colorize)
	}
	if failed {
		return fmt.Errorf("one or more files failed to parse")
	}
	return nil
}

func parseOneFile(ctx context.Context, cache *parsecache.Cache, path string) parseResult {
	start := time.Now()
	r := parseResult{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		r.err = err
		r.duration = time.Since(start)
		return r
	}
	r.source = string(data)

	if cache != nil {
		if block, ok, err := cache.Get(ctx, r.source); err == nil && ok {
			r.block = block
			r.cacheHit = true
			r.duration = time.Since(start)
			return r
		}
	}

	block, err := lua.Parse(r.source)
	r.block = block
	r.err = err
	r.duration = time.Since(start)

	if err == nil && cache != nil {
		if err := cache.Put(ctx, r.source, block); err != nil {
			log.Debugf(ctx, "%s: could not populate parse cache: %v", path, err)
		}
	}
	return r
}

func printResult(w *os.File, r parseResult, format string, colorize bool) {
	switch {
	case r.err != nil:
		fmt.Fprintf(os.Stderr, "%s: %v\n", r.path, r.err)
		if loc, ok := sourceLocation(r.source, r.err); ok {
			printCaret(os.Stderr, r.source, loc, colorize)
		}
		return
	case format == "json":
		data, err := jsonv2.Marshal(r.block)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: encode result: %v\n", r.path, err)
			return
		}
		fmt.Fprintf(w, "%s\n", data)
	default:
		cached := ""
		if r.cacheHit {
			cached = " (cached)"
		}
		fmt.Fprintf(w, "%s: %d statements, %s in %s%s\n",
			r.path, len(r.block.Statements), humanize.Bytes(uint64(len(r.source))), r.duration, cached)
	}
}

// sourceLocation extracts the byte offset into source that err points
// at, for the two error shapes [lua.Parse] can return: a [parsec.BadToken]
// already carries one directly, and a [lua.UnreachedEOF] resolves one
// from its lexed line:column position via [lua.UnreachedEOF.Offset].
func sourceLocation(source string, err error) (offset int, ok bool) {
	var bad *parsec.BadToken
	if errors.As(err, &bad) {
		return bad.Start, true
	}
	var unreached *lua.UnreachedEOF
	if errors.As(err, &unreached) {
		return unreached.Offset(source)
	}
	return 0, false
}

func printCaret(w *os.File, source string, offset int, colorize bool) {
	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	lineEnd := len(source)
	if i := strings.IndexByte(source[offset:], '\n'); i >= 0 {
		lineEnd = offset + i
	}
	line := source[lineStart:lineEnd]
	col := offset - lineStart

	fmt.Fprintln(w, line)
	caret := strings.Repeat(" ", col) + "^"
	if colorize {
		fmt.Fprintf(w, "\x1b[31m%s\x1b[0m\n", caret)
	} else {
		fmt.Fprintln(w, caret)
	}
}
