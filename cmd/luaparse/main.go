// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

// Command luaparse parses Lua 5.4 source files into an abstract syntax
// tree, either as a one-shot CLI (the "parse" subcommand) or as a
// long-running service (the "serve" subcommand).
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"go4.org/xdgdir"
	"zombiezen.com/go/bass/sigterm"
	"zombiezen.com/go/log"

	"go.parsit.dev/lua/internal/xmaps"
	"go.parsit.dev/lua/sets"
)

// globalConfig holds flags and config-file values shared across every
// subcommand.
type globalConfig struct {
	cacheDir          string
	configPath        string
	cfg               fileConfig
	trustedExtensions sets.Set[string]
}

func main() {
	rootCommand := &cobra.Command{
		Use:           "luaparse",
		Short:         "parse Lua 5.4 source into an abstract syntax tree",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	g := &globalConfig{
		cacheDir: filepath.Join(xdgdir.Cache.Path(), "luaparse"),
	}
	rootCommand.PersistentFlags().StringVar(&g.cacheDir, "cache-dir", g.cacheDir, "`directory` for the parse cache")
	rootCommand.PersistentFlags().StringVar(&g.configPath, "config", "", "`path` to a JWCC config file")
	showDebug := rootCommand.PersistentFlags().Bool("debug", false, "show debugging output")
	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogging(*showDebug)
		cfg, err := loadConfig(g.configPath)
		if err != nil {
			return err
		}
		g.cfg = cfg
		g.trustedExtensions = cfg.trustedExtensions()
		if cfg.CacheDir != "" {
			g.cacheDir = cfg.CacheDir
		}
		return nil
	}

	rootCommand.AddCommand(
		newParseCommand(g),
		newServeCommand(g),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), sigterm.Signals()...)
	err := rootCommand.ExecuteContext(ctx)
	cancel()
	if err != nil {
		initLogging(*showDebug)
		log.Errorf(context.Background(), "%v", err)
		os.Exit(1)
	}
}

var initLogOnce sync.Once

// logTrustedExtensions logs the configured trusted-keyword-extensions
// set, if non-empty, in a deterministic order (the set itself is an
// unordered map). Shared by "parse" and "serve" so both report the same
// diagnostic before doing anything else.
func logTrustedExtensions(ctx context.Context, g *globalConfig) {
	if len(g.trustedExtensions) == 0 {
		return
	}
	names := xmaps.SortedKeys(g.trustedExtensions)
	log.Debugf(ctx, "trusted keyword extensions configured (not yet recognized by the grammar): %v", names)
}

func initLogging(showDebug bool) {
	initLogOnce.Do(func() {
		minLogLevel := log.Info
		if showDebug {
			minLogLevel = log.Debug
		}
		log.SetDefault(&log.LevelFilter{
			Min:    minLogLevel,
			Output: log.New(os.Stderr, "luaparse: ", log.StdFlags, nil),
		})
	})
}
