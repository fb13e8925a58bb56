// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathanhimpens/pandoc-wasm/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert [inputs...] [-- pandoc args...]",
	Short: "Convert documents in batch with pandoc.wasm",
	Long: `Convert runs pandoc.wasm once per input file, writing the result to
--out-dir with an extension matching --to. Inputs whose output already exists
are skipped. Arguments after -- are passed to every pandoc invocation.

Paths are resolved inside the sandbox, so inputs and --out-dir must lie under
--wasm-dir.`,
	Example: `  pandoc-wasm convert --to docx --out-dir build docs/*.md
  pandoc-wasm convert --to html -- --standalone notes.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("from", "f", "", "input format (default: inferred by pandoc)")
	convertCmd.Flags().StringP("to", "t", "html", "output format")
	convertCmd.Flags().String("out-dir", "", "directory for converted files (default: next to each input)")
	convertCmd.Flags().String("wasm-dir", ".", "host directory made visible to pandoc")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputs, extra := args, []string(nil)
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		inputs, extra = args[:at], args[at:]
	}
	if len(inputs) == 0 {
		return fmt.Errorf("provide one or more input files before --")
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	outDir, _ := cmd.Flags().GetString("out-dir")
	wasmDir, _ := cmd.Flags().GetString("wasm-dir")

	opts := convert.Options{
		From:    from,
		To:      to,
		Extra:   extra,
		OutDir:  outDir,
		WasmDir: wasmDir,
	}

	client := newClient(os.Stderr)
	result := convert.ConvertPaths(cmd.Context(), client, inputs, opts, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
