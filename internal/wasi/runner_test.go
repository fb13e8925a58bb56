// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wasi

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

// mockExecutor records the command it was asked to run and returns a canned
// output.
type mockExecutor struct {
	out    Output
	err    error
	calls  int
	name   string
	args   []string
	onPath map[string]bool
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Capture(_ context.Context, name string, args []string) (Output, error) {
	m.calls++
	m.name = name
	m.args = args
	return m.out, m.err
}

// command returns the full command line the executor saw.
func (m *mockExecutor) command() []string {
	return append([]string{m.name}, m.args...)
}

// fakeBinary writes a placeholder wasm file and returns its path.
func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pandoc.wasm")
	require.NoError(t, os.WriteFile(path, []byte("fake"), 0o755))
	return path
}

func TestRun_BinaryNotFound(t *testing.T) {
	argLists := [][]string{
		nil,
		{"-o", "output.pptx", "input.md"},
		{"--version"},
	}
	for _, args := range argLists {
		exec := &mockExecutor{}
		missing := filepath.Join(t.TempDir(), "nonexistent_pandoc.wasm")
		cfg := &types.RuntimeConfig{BinaryPath: missing, Runtime: "wasmtime"}

		_, err := NewRunner(cfg, exec).Run(context.Background(), args)

		var nf *BinaryNotFoundError
		require.True(t, errors.As(err, &nf), "want BinaryNotFoundError, got %v", err)
		assert.Equal(t, missing, nf.Path)
		assert.Contains(t, err.Error(), "not found")
		assert.Contains(t, err.Error(), missing)
		assert.Contains(t, err.Error(), "download")
		assert.Equal(t, 0, exec.calls, "no process may be started")
	}
}

func TestRun_DirectoryIsNotABinary(t *testing.T) {
	exec := &mockExecutor{}
	cfg := &types.RuntimeConfig{BinaryPath: t.TempDir()}

	_, err := NewRunner(cfg, exec).Run(context.Background(), []string{"in.md"})
	var nf *BinaryNotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, 0, exec.calls)
}

func TestRun_BuildsCommand(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{}
	cfg := &types.RuntimeConfig{BinaryPath: binary, Runtime: "wasmtime"}

	_, err := NewRunner(cfg, exec).Run(context.Background(),
		[]string{"-o", "output.pptx", "input.md"}, WithWasmDir("/mydir"))
	require.NoError(t, err)

	want := []string{"wasmtime", "run", "--dir", "/mydir", binary, "-o", "output.pptx", "input.md"}
	assert.Equal(t, want, exec.command())
}

func TestRun_PassesArgsThroughInOrder(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{}
	cfg := &types.RuntimeConfig{BinaryPath: binary}

	args := []string{"-o", "out.pptx", "--slide-level=2", "--reference-doc=ref.pptx", "in.md", "", "with space"}
	_, err := NewRunner(cfg, exec).Run(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, args, exec.command()[5:])
}

func TestRun_DefaultWasmDir(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{}
	cfg := &types.RuntimeConfig{BinaryPath: binary}

	_, err := NewRunner(cfg, exec).Run(context.Background(), []string{"in.md"})
	require.NoError(t, err)

	cmd := exec.command()
	assert.Equal(t, "--dir", cmd[2])
	assert.Equal(t, DefaultWasmDir, cmd[3])
	assert.Equal(t, ".", cmd[3])

	// An empty directory keeps the default.
	_, err = NewRunner(cfg, exec).Run(context.Background(), []string{"in.md"}, WithWasmDir(""))
	require.NoError(t, err)
	assert.Equal(t, ".", exec.command()[3])
}

func TestRun_RuntimeOnlyChangesFirstElement(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{}
	cfg := &types.RuntimeConfig{BinaryPath: binary, Runtime: "wasmtime"}
	r := NewRunner(cfg, exec)
	args := []string{"-o", "out.pptx", "in.md"}

	_, err := r.Run(context.Background(), args, WithWasmDir("docs"))
	require.NoError(t, err)
	before := exec.command()

	cfg.Runtime = "wasmer"
	_, err = r.Run(context.Background(), args, WithWasmDir("docs"))
	require.NoError(t, err)
	after := exec.command()

	assert.Equal(t, "wasmtime", before[0])
	assert.Equal(t, "wasmer", after[0])
	assert.Equal(t, before[1:], after[1:])
}

func TestRun_DefaultRuntime(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{}
	cfg := &types.RuntimeConfig{BinaryPath: binary}

	_, err := NewRunner(cfg, exec).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultRuntime, exec.command()[0])
}

func TestRun_ReturnsCapturedOutput(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{out: Output{Stdout: "some output\n", Stderr: "some warning\n"}}
	cfg := &types.RuntimeConfig{BinaryPath: binary}

	result, err := NewRunner(cfg, exec).Run(context.Background(), []string{"-o", "out.pptx", "in.md"})
	require.NoError(t, err)

	assert.Equal(t, types.ExecutionResult{
		Stdout:  "some output\n",
		Stderr:  "some warning\n",
		Success: true,
	}, result)
}

func TestRun_NonZeroExit(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{out: Output{Stderr: "Unknown format\n", ExitCode: 1}}
	cfg := &types.RuntimeConfig{BinaryPath: binary}

	result, err := NewRunner(cfg, exec).Run(context.Background(), []string{"-o", "out.pptx", "in.md"})
	require.Error(t, err)
	assert.Equal(t, types.ExecutionResult{}, result)

	var ee *ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 1, ee.ExitCode)
	assert.Contains(t, err.Error(), "status 1")
	assert.Contains(t, err.Error(), "Unknown format")
}

func TestRun_RuntimeFailsToStart(t *testing.T) {
	binary := fakeBinary(t)
	exec := &mockExecutor{err: errors.New(`exec: "wasmtime": executable file not found in $PATH`)}
	cfg := &types.RuntimeConfig{BinaryPath: binary}

	_, err := NewRunner(cfg, exec).Run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running wasmtime")

	var ee *ExecutionError
	assert.False(t, errors.As(err, &ee))
}

func TestRuntimeAvailable(t *testing.T) {
	exec := &mockExecutor{onPath: map[string]bool{"wasmtime": true}}

	assert.True(t, NewRunner(&types.RuntimeConfig{Runtime: "wasmtime"}, exec).RuntimeAvailable())
	assert.False(t, NewRunner(&types.RuntimeConfig{Runtime: "wasmer"}, exec).RuntimeAvailable())
	assert.True(t, NewRunner(&types.RuntimeConfig{Runtime: EmbeddedRuntime}, nil).RuntimeAvailable())
}

func TestExecutorSelection(t *testing.T) {
	assert.IsType(t, EmbeddedExecutor{}, NewRunner(&types.RuntimeConfig{Runtime: EmbeddedRuntime}, nil).executor())
	assert.IsType(t, osExecutor{}, NewRunner(&types.RuntimeConfig{Runtime: "wasmtime"}, nil).executor())
}

func TestOSExecutorCapture(t *testing.T) {
	var ex osExecutor
	if _, err := ex.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := ex.Capture(context.Background(), "sh", []string{"-c", "echo out; echo err >&2; exit 3"})
	require.NoError(t, err)
	assert.Equal(t, "out\n", out.Stdout)
	assert.Equal(t, "err\n", out.Stderr)
	assert.Equal(t, 3, out.ExitCode)

	_, err = ex.Capture(context.Background(), "definitely-not-a-runtime-xyz", nil)
	assert.Error(t, err)
}
