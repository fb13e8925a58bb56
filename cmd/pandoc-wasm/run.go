// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathanhimpens/pandoc-wasm/pkg/pandocwasm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- [pandoc args...]",
	Short: "Run pandoc.wasm with the given arguments",
	Long: `Run invokes pandoc.wasm through the configured WASI runtime. Arguments
after -- are passed to pandoc unchanged. The sandbox can only see --wasm-dir
(default: the current directory), so file arguments must be relative to it.

The exit status of pandoc is propagated.`,
	Example: `  pandoc-wasm run -- -o out.docx README.md
  pandoc-wasm run --wasm-dir docs -- -t html intro.md`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("wasm-dir", ".", "host directory made visible to pandoc")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	wasmDir, _ := cmd.Flags().GetString("wasm-dir")

	res, err := newClient(os.Stderr).Run(cmd.Context(), args, pandocwasm.WithWasmDir(wasmDir))
	var ee *pandocwasm.ExecutionError
	if errors.As(err, &ee) {
		fmt.Fprint(os.Stdout, ee.Stdout)
		fmt.Fprint(os.Stderr, ee.Stderr)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)
	return nil
}
