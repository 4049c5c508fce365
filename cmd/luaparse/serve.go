// Copyright 2025 The parsit Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"
	"zombiezen.com/go/log"
	"zombiezen.com/go/xcontext"

	"go.parsit.dev/lua/lua"
	"go.parsit.dev/lua/internal/jsonrpc"
)

type serveOptions struct {
	addr  string
	stdio bool
}

func newServeCommand(g *globalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:                   "serve [options]",
		Short:                 "run luaparse as a parsing service",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}
	opts := new(serveOptions)
	c.Flags().StringVar(&opts.addr, "addr", "localhost:4747", "HTTP listen `address`")
	c.Flags().BoolVar(&opts.stdio, "stdio", false, "serve a single JSON-RPC connection over stdin/stdout instead of listening on --addr")
	c.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), g, opts)
	}
	return c
}

func runServe(ctx context.Context, g *globalConfig, opts *serveOptions) error {
	logTrustedExtensions(ctx, g)
	if opts.stdio {
		return serveStdio(ctx)
	}
	return serveHTTP(ctx, opts.addr)
}

// parseMethod is the sole JSON-RPC method exposed by "serve": it parses
// the given source and returns its AST, or the error text of the first
// [parsec.BadToken] or [lua.UnreachedEOF] encountered. It never executes
// Lua (see SPEC_FULL.md §6): this is a transport for [lua.Parse], not a
// new capability.
const parseMethod = "parse"

type parseParams struct {
	Source string `json:"source"`
}

type parseResultPayload struct {
	Block *lua.Block `json:"block,omitempty"`
	Error string     `json:"error,omitempty"`
}

func handleParse(ctx context.Context, req *jsonrpc.Request) (*jsonrpc.Response, error) {
	var params parseParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, jsonrpc.Error(jsonrpc.InvalidParams, err)
	}

	block, err := lua.Parse(params.Source)
	payload := parseResultPayload{Block: block}
	if err != nil {
		payload.Error = err.Error()
		payload.Block = nil
	}

	result, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &jsonrpc.Response{Result: result}, nil
}

func rpcHandler() jsonrpc.Handler {
	return jsonrpc.ServeMux{
		parseMethod: jsonrpc.HandlerFunc(handleParse),
	}
}

// serveStdio runs a single JSON-RPC connection over the process's own
// stdin and stdout, for embedding luaparse as a subprocess in another
// tool's pipeline rather than talking HTTP to it.
func serveStdio(ctx context.Context) error {
	codec := newStdioCodec(os.Stdin, os.Stdout)
	closer := xcontext.CloseWhenDone(ctx, codec)
	defer closer.Close()
	err := jsonrpc.Serve(ctx, codec, rpcHandler())
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// lspFramedCodec implements [jsonrpc.ServerCodec] using the same
// Content-Length-prefixed framing as the Language Server Protocol,
// reusing [jsonrpc.Reader]/[jsonrpc.Writer] rather than a bespoke framer.
type lspFramedCodec struct {
	r *jsonrpc.Reader
	w *jsonrpc.Writer
}

func newStdioCodec(r io.Reader, w io.Writer) *lspFramedCodec {
	return &lspFramedCodec{r: jsonrpc.NewReader(r), w: jsonrpc.NewWriter(w)}
}

func (c *lspFramedCodec) ReadRequest() (json.RawMessage, error) {
	_, size, err := c.r.NextMessage()
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("luaparse: serve --stdio: message missing Content-Length")
	}
	return io.ReadAll(c.r)
}

func (c *lspFramedCodec) WriteResponse(response json.RawMessage) error {
	header := jsonrpc.Header{"Content-Length": {strconv.Itoa(len(response))}}
	return c.w.WriteMessage(header, bytes.NewReader(response))
}

func (c *lspFramedCodec) Close() error {
	return nil
}

// serveHTTP listens on addr and serves the "parse" RPC as JSON over
// HTTP POST to /rpc. It does not accept raw JSON-RPC connections.
func serveHTTP(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/rpc", handlers.MethodHandler{
		"POST": http.HandlerFunc(httpParseHandler),
	})

	logged := handlers.CombinedLoggingHandler(os.Stderr, mux)
	srv := &http.Server{
		Addr:    addr,
		Handler: traceIDMiddleware(logged),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer l.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf(ctx, "HTTP shutdown: %v", err)
		}
	}()

	log.Infof(ctx, "Listening on http://%s/rpc", addr)
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Debugf(ctx, "sd_notify: %v", err)
	}

	err = srv.Serve(l)
	wg.Wait()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

const shutdownGrace = 5 * time.Second

// traceIDMiddleware stamps every response with a fresh UUID in its
// X-Trace-Id header. The ID is not written to the log.
func traceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New()
		w.Header().Set("X-Trace-Id", id.String())
		next.ServeHTTP(w, r)
	})
}

func httpParseHandler(w http.ResponseWriter, r *http.Request) {
	var params parseParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}

	block, err := lua.Parse(params.Source)
	payload := parseResultPayload{Block: block}
	if err != nil {
		payload.Error = err.Error()
		payload.Block = nil
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warnf(r.Context(), "encode response: %v", err)
	}
}
