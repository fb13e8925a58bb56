// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wasi

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

// EmbeddedRuntime is the runtime name that selects the in-process wazero
// executor instead of a subprocess.
const EmbeddedRuntime = "wazero"

// EmbeddedExecutor interprets a "run --dir <dir> <binary> <args...>" command
// line the way the wasmtime CLI does, but executes the module in-process.
type EmbeddedExecutor struct{}

// LookPath always succeeds: the runtime is linked into this program.
func (EmbeddedExecutor) LookPath(file string) (string, error) {
	return file, nil
}

// invocation is a parsed runtime command line.
type invocation struct {
	dirs   []string
	binary string
	args   []string
}

// parseRunArgs accepts the arguments following the runtime name.
func parseRunArgs(args []string) (invocation, error) {
	var inv invocation
	if len(args) == 0 || args[0] != "run" {
		return inv, fmt.Errorf("unsupported command %q: only \"run\" is implemented", strings.Join(args, " "))
	}

	rest := args[1:]
	for len(rest) > 0 {
		arg := rest[0]
		switch {
		case arg == "--dir":
			if len(rest) < 2 {
				return inv, fmt.Errorf("--dir requires a value")
			}
			inv.dirs = append(inv.dirs, rest[1])
			rest = rest[2:]
		case strings.HasPrefix(arg, "--dir="):
			inv.dirs = append(inv.dirs, strings.TrimPrefix(arg, "--dir="))
			rest = rest[1:]
		case strings.HasPrefix(arg, "-"):
			return inv, fmt.Errorf("unsupported runtime flag %q", arg)
		default:
			inv.binary = arg
			inv.args = rest[1:]
			return inv, nil
		}
	}
	return inv, fmt.Errorf("missing wasm binary path")
}

// guestPath maps a host directory to the path the module sees. "." becomes
// the guest root so relative paths resolve as they do under wasmtime.
func guestPath(dir string) string {
	clean := filepath.ToSlash(filepath.Clean(dir))
	switch {
	case clean == ".":
		return "/"
	case strings.HasPrefix(clean, "/"):
		return clean
	default:
		return "/" + clean
	}
}

// Capture runs the module named on the command line and captures stdout and
// stderr. The exit code comes from the module's proc_exit call.
func (EmbeddedExecutor) Capture(ctx context.Context, _ string, args []string) (Output, error) {
	inv, err := parseRunArgs(args)
	if err != nil {
		return Output{}, err
	}

	wasm, err := os.ReadFile(inv.binary)
	if err != nil {
		return Output{}, fmt.Errorf("reading %s: %w", inv.binary, err)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	defer rt.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, rt)

	fsConfig := wazero.NewFSConfig()
	for _, d := range inv.dirs {
		fsConfig = fsConfig.WithDirMount(d, guestPath(d))
	}

	var stdout, stderr bytes.Buffer
	moduleConfig := wazero.NewModuleConfig().
		WithArgs(append([]string{filepath.Base(inv.binary)}, inv.args...)...).
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithFSConfig(fsConfig).
		WithRandSource(rand.Reader).
		WithSysWalltime().
		WithSysNanotime().
		WithName("pandoc")

	_, err = rt.InstantiateWithConfig(ctx, wasm, moduleConfig)
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = int(exitErr.ExitCode())
			return out, nil
		}
		return out, fmt.Errorf("executing %s: %w", inv.binary, err)
	}
	return out, nil
}
