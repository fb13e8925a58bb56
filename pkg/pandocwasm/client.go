// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandocwasm downloads a prebuilt pandoc.wasm from a release host and
// runs it through a WASI runtime.
//
// A Client holds its own configuration (binary path, runtime name, release
// coordinates); construct one per logical caller:
//
//	c := pandocwasm.New(types.DefaultConfig())
//	if _, err := c.Ensure(ctx); err != nil {
//		return err
//	}
//	res, err := c.Run(ctx, []string{"-o", "out.docx", "in.md"})
//
// Setters are not synchronized; configure the client before sharing it.
package pandocwasm

import (
	"context"
	"io"
	"net/http"

	"github.com/nathanhimpens/pandoc-wasm/internal/fetch"
	"github.com/nathanhimpens/pandoc-wasm/internal/release"
	"github.com/nathanhimpens/pandoc-wasm/internal/wasi"
	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

// Client is the public entry point.
type Client struct {
	cfg        types.Config
	httpClient *http.Client
	log        io.Writer
	runner     *wasi.Runner
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for the release host.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLog sets the writer receiving progress and guidance messages.
func WithLog(w io.Writer) Option {
	return func(c *Client) { c.log = w }
}

// WithExecutor replaces the process executor used by Run.
func WithExecutor(e wasi.Executor) Option {
	return func(c *Client) { c.runner = wasi.NewRunner(&c.cfg.Runtime, e) }
}

// New returns a client for cfg.
func New(cfg types.Config, opts ...Option) *Client {
	c := &Client{cfg: cfg, log: io.Discard}
	c.runner = wasi.NewRunner(&c.cfg.Runtime, nil)
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		timeout := c.cfg.Release.Timeout
		if timeout == 0 {
			timeout = types.DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.cfg.Release.UserAgent == "" {
		c.cfg.Release.UserAgent = types.DefaultUserAgent
	}
	return c
}

// Config returns a copy of the effective configuration with runtime settings
// resolved.
func (c *Client) Config() types.Config {
	cfg := c.cfg
	cfg.Runtime.BinaryPath = c.BinaryPath()
	cfg.Runtime.Runtime = c.Runtime()
	return cfg
}

// BinaryPath returns the path of the wasm binary.
func (c *Client) BinaryPath() string { return c.cfg.Runtime.ResolvedBinaryPath() }

// SetBinaryPath changes the binary path. An empty path restores the default.
func (c *Client) SetBinaryPath(path string) { c.cfg.Runtime.BinaryPath = path }

// Runtime returns the WASI runtime name.
func (c *Client) Runtime() string { return c.cfg.Runtime.ResolvedRuntime() }

// SetRuntime changes the WASI runtime. An empty name restores the default.
func (c *Client) SetRuntime(name string) { c.cfg.Runtime.Runtime = name }

// Available reports whether the wasm binary is present.
func (c *Client) Available() bool {
	return wasi.IsRegularFile(c.BinaryPath())
}

// RuntimeAvailable reports whether the configured runtime can be started.
func (c *Client) RuntimeAvailable() bool {
	return c.runner.RuntimeAvailable()
}

// Run executes the wasm binary with args. See WithWasmDir.
func (c *Client) Run(ctx context.Context, args []string, opts ...RunOption) (types.ExecutionResult, error) {
	return c.runner.Run(ctx, args, opts...)
}

// RunOption adjusts a single Run call.
type RunOption = wasi.Option

// WithWasmDir sets the host directory exposed to the sandbox (default ".").
func WithWasmDir(dir string) RunOption { return wasi.WithWasmDir(dir) }

func (c *Client) resolver() *release.Resolver {
	return release.NewResolver(c.httpClient, c.cfg.Release)
}

func (c *Client) fetcher() *fetch.Fetcher {
	return fetch.NewFetcher(c.httpClient, c.cfg.Release.UserAgent, c.log)
}
