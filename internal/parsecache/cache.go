// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

// Package parsecache is a content-addressed, disk-backed cache of parsed
// Lua ASTs, keyed by the SHA-256 hash of the source text. It exists so
// `cmd/luaparse parse` can skip re-parsing files it has already seen (the
// common case when the same Lua sources are parsed repeatedly across
// invocations, e.g. in a build pipeline).
package parsecache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/dsnet/compress/bzip2"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"go.parsit.dev/lua/lua"
)

// Cache is a handle to an on-disk AST cache. The zero value is not usable;
// call [Open].
type Cache struct {
	conn    *sqlite.Conn
	blobDir string
}

// Open opens (creating if necessary) the cache index database at dbPath and
// the blob directory blobDir, in which compressed serialized ASTs are
// stored one file per content hash.
func Open(ctx context.Context, dbPath, blobDir string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o777); err != nil {
		return nil, fmt.Errorf("parsecache: open: %v", err)
	}
	if err := os.MkdirAll(blobDir, 0o777); err != nil {
		return nil, fmt.Errorf("parsecache: open: %v", err)
	}

	conn, err := sqlite.OpenConn(dbPath, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("parsecache: open %s: %v", dbPath, err)
	}
	conn.SetInterrupt(ctx.Done())
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA journal_mode=wal;", nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("parsecache: open %s: %v", dbPath, err)
	}
	if err := sqlitex.ExecuteTransient(conn, schemaSQL, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("parsecache: open %s: create schema: %v", dbPath, err)
	}

	return &Cache{conn: conn, blobDir: blobDir}, nil
}

// Close releases the cache's database handle. It does not remove any blobs.
func (c *Cache) Close() error {
	return c.conn.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS parses (
	source_hash TEXT PRIMARY KEY,
	blob_name   TEXT NOT NULL,
	byte_length INTEGER NOT NULL
);
`

// hashSource returns the cache key for source: the lowercase hex encoding
// of its SHA-256 hash.
func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Get looks up the parsed AST for source, returning ok == false if it is
// not present in the cache.
func (c *Cache) Get(ctx context.Context, source string) (_ *lua.Block, ok bool, err error) {
	key := hashSource(source)
	var blobName string
	err = sqlitex.ExecuteTransient(c.conn, `SELECT blob_name FROM parses WHERE source_hash = ?;`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			blobName = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("parsecache: get: %v", err)
	}
	if blobName == "" {
		return nil, false, nil
	}

	f, err := os.Open(filepath.Join(c.blobDir, blobName))
	if err != nil {
		if os.IsNotExist(err) {
			// Index row survived a blob that didn't; treat as a cache miss.
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("parsecache: get: %v", err)
	}
	defer f.Close()

	bzr, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, false, fmt.Errorf("parsecache: get: %v", err)
	}
	defer bzr.Close()

	data, err := io.ReadAll(bzr)
	if err != nil {
		return nil, false, fmt.Errorf("parsecache: get: %v", err)
	}

	b := new(lua.Block)
	if err := jsonv2.Unmarshal(data, b); err != nil {
		return nil, false, fmt.Errorf("parsecache: get: decode: %v", err)
	}
	return b, true, nil
}

// Put stores block as the parse result for source, replacing any existing
// entry for the same source.
func (c *Cache) Put(ctx context.Context, source string, block *lua.Block) error {
	key := hashSource(source)
	blobName := key + ".json.bz2"

	data, err := jsonv2.Marshal(block)
	if err != nil {
		return fmt.Errorf("parsecache: put: encode: %v", err)
	}

	var compressed bytes.Buffer
	bzw, err := bzip2.NewWriter(&compressed, nil)
	if err != nil {
		return fmt.Errorf("parsecache: put: %v", err)
	}
	if _, err := bzw.Write(data); err != nil {
		bzw.Close()
		return fmt.Errorf("parsecache: put: %v", err)
	}
	if err := bzw.Close(); err != nil {
		return fmt.Errorf("parsecache: put: %v", err)
	}

	if err := os.WriteFile(filepath.Join(c.blobDir, blobName), compressed.Bytes(), 0o666); err != nil {
		return fmt.Errorf("parsecache: put: %v", err)
	}

	err = sqlitex.ExecuteTransient(c.conn,
		`INSERT INTO parses (source_hash, blob_name, byte_length) VALUES (?, ?, ?)
		 ON CONFLICT (source_hash) DO UPDATE SET blob_name = excluded.blob_name, byte_length = excluded.byte_length;`,
		&sqlitex.ExecOptions{Args: []any{key, blobName, len(data)}},
	)
	if err != nil {
		return fmt.Errorf("parsecache: put: %v", err)
	}
	return nil
}
