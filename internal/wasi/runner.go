// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wasi runs the downloaded wasm binary through a WASI runtime.
//
// The runner builds the command line
//
//	<runtime> run --dir <wasmDir> <binaryPath> <args...>
//
// and executes it either as a subprocess (wasmtime, wasmer, ...) or, when the
// runtime is EmbeddedRuntime, in-process with wazero.
package wasi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

// DefaultWasmDir is the host directory exposed to the sandbox when the caller
// does not choose one.
const DefaultWasmDir = "."

// BinaryNotFoundError is returned by Run when no regular file exists at the
// configured binary path. No process is started in that case.
type BinaryNotFoundError struct {
	Path string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("pandoc.wasm not found at %s. Run `pandoc-wasm download` "+
		"(Client.DownloadToBinaryPath) to download it.", e.Path)
}

// ExecutionError is returned by Run when the binary exits with a non-zero
// status.
type ExecutionError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("pandoc exited with status %d: %s", e.ExitCode, e.Stderr)
}

// Output is what an Executor captured from one command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs a command to completion and captures its output. A non-zero
// exit status is reported through Output.ExitCode; the error is reserved for
// failing to run the command at all.
type Executor interface {
	LookPath(file string) (string, error)
	Capture(ctx context.Context, name string, args []string) (Output, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Capture(ctx context.Context, name string, args []string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, err
}

// Option adjusts a single Run call.
type Option func(*runOptions)

type runOptions struct {
	wasmDir string
}

// WithWasmDir sets the host directory exposed to the sandbox.
func WithWasmDir(dir string) Option {
	return func(o *runOptions) {
		if dir != "" {
			o.wasmDir = dir
		}
	}
}

// Runner executes the wasm binary. It reads the binary path and runtime name
// from cfg on every call, so changes made through the config pointer apply to
// the next Run.
type Runner struct {
	cfg  *types.RuntimeConfig
	exec Executor
}

// NewRunner returns a runner reading settings from cfg. A nil executor picks
// the embedded runtime or os/exec based on the configured runtime name.
func NewRunner(cfg *types.RuntimeConfig, exec Executor) *Runner {
	return &Runner{cfg: cfg, exec: exec}
}

func (r *Runner) executor() Executor {
	if r.exec != nil {
		return r.exec
	}
	if r.cfg.ResolvedRuntime() == EmbeddedRuntime {
		return EmbeddedExecutor{}
	}
	return osExecutor{}
}

// Command returns the full command line for args: the runtime, the "run"
// subcommand, the sandbox directory flag, the binary, then args unchanged.
func Command(runtime, wasmDir, binaryPath string, args []string) []string {
	cmd := make([]string, 0, 5+len(args))
	cmd = append(cmd, runtime, "run", "--dir", wasmDir, binaryPath)
	return append(cmd, args...)
}

// Run executes the binary with args and returns the captured output.
func (r *Runner) Run(ctx context.Context, args []string, opts ...Option) (types.ExecutionResult, error) {
	o := runOptions{wasmDir: DefaultWasmDir}
	for _, opt := range opts {
		opt(&o)
	}

	binary := r.cfg.ResolvedBinaryPath()
	if !IsRegularFile(binary) {
		return types.ExecutionResult{}, &BinaryNotFoundError{Path: binary}
	}

	cmd := Command(r.cfg.ResolvedRuntime(), o.wasmDir, binary, args)
	out, err := r.executor().Capture(ctx, cmd[0], cmd[1:])
	if err != nil {
		return types.ExecutionResult{}, fmt.Errorf("running %s: %w", cmd[0], err)
	}
	if out.ExitCode != 0 {
		return types.ExecutionResult{}, &ExecutionError{
			ExitCode: out.ExitCode,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
		}
	}

	return types.ExecutionResult{
		Stdout:  out.Stdout,
		Stderr:  out.Stderr,
		Success: true,
	}, nil
}

// RuntimeAvailable reports whether the configured runtime can be started.
func (r *Runner) RuntimeAvailable() bool {
	_, err := r.executor().LookPath(r.cfg.ResolvedRuntime())
	return err == nil
}

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
