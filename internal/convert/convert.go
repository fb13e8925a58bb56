// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives file-to-file conversions through the wasm runner.
// It only builds pandoc argument lists and tracks per-file status; all format
// handling happens inside the wasm binary.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathanhimpens/pandoc-wasm/internal/wasi"
	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

// Runner executes the wasm binary. *wasi.Runner and *pandocwasm.Client
// satisfy it.
type Runner interface {
	Run(ctx context.Context, args []string, opts ...wasi.Option) (types.ExecutionResult, error)
}

// Job is one input file converted to one output file.
type Job struct {
	Input  string
	Output string
}

// Options apply to every job of a batch.
type Options struct {
	// From and To are pandoc reader and writer names; empty lets pandoc infer
	// them from the file extensions.
	From string
	To   string

	// Extra arguments are passed before the output flag, unchanged.
	Extra []string

	// OutDir receives outputs for ConvertPaths. Empty means next to each
	// input.
	OutDir string

	// WasmDir is the host directory exposed to the sandbox. Inputs and
	// outputs must live under it.
	WasmDir string
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Args returns the pandoc arguments for job.
func Args(job Job, opts Options) []string {
	var args []string
	if opts.From != "" {
		args = append(args, "-f", opts.From)
	}
	if opts.To != "" {
		args = append(args, "-t", opts.To)
	}
	args = append(args, opts.Extra...)
	return append(args, "-o", job.Output, job.Input)
}

// ConvertFile runs one job. If the output already exists the job is skipped
// and ConversionNone is returned.
func ConvertFile(ctx context.Context, r Runner, job Job, opts Options, w io.Writer) types.ConversionStatus {
	if _, err := os.Stat(job.Output); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", job.Output)
		return types.ConversionNone
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", job.Input, err)
		return types.ConversionFailed
	}

	res, err := r.Run(ctx, Args(job, opts), wasi.WithWasmDir(opts.WasmDir))
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", job.Input, strings.TrimSpace(err.Error()))
		return types.ConversionFailed
	}
	for _, line := range strings.Split(strings.TrimSpace(res.Stderr), "\n") {
		if line != "" {
			fmt.Fprintf(w, "  warning: %s\n", line)
		}
	}

	fmt.Fprintf(w, "converted: %s -> %s\n", job.Input, job.Output)
	return types.ConversionConverted
}

// ConvertBatch runs jobs in order, printing per-file status to w and
// returning a summary. It continues after individual failures.
func ConvertBatch(ctx context.Context, r Runner, jobs []Job, opts Options, w io.Writer) BatchResult {
	var result BatchResult
	for _, job := range jobs {
		switch ConvertFile(ctx, r, job, opts, w) {
		case types.ConversionConverted:
			result.Converted++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertPaths builds jobs from input paths, writing each output to
// opts.OutDir with the input's base name and the extension for opts.To.
func ConvertPaths(ctx context.Context, r Runner, inputs []string, opts Options, w io.Writer) BatchResult {
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = Job{Input: in, Output: OutputPath(in, opts.OutDir, opts.To)}
	}
	return ConvertBatch(ctx, r, jobs, opts, w)
}

// extensions maps pandoc writer names to file extensions where they differ.
var extensions = map[string]string{
	"markdown":     "md",
	"gfm":          "md",
	"commonmark":   "md",
	"plain":        "txt",
	"latex":        "tex",
	"beamer":       "tex",
	"html5":        "html",
	"asciidoc":     "adoc",
	"mediawiki":    "wiki",
	"revealjs":     "html",
	"native":       "hs",
	"docbook":      "xml",
	"docbook5":     "xml",
	"jats":         "xml",
	"opendocument": "xml",
}

// OutputPath returns outDir/<base of input>.<ext for format>. An empty outDir
// places the output next to the input; an empty format yields ".html",
// pandoc's default writer.
func OutputPath(input, outDir, format string) string {
	ext := "html"
	if format != "" {
		ext = format
		if mapped, ok := extensions[format]; ok {
			ext = mapped
		}
	}
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outDir, base+"."+ext)
}
