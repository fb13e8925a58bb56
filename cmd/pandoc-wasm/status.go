// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathanhimpens/pandoc-wasm/internal/release"
	"github.com/nathanhimpens/pandoc-wasm/pkg/pandocwasm"
	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether pandoc.wasm and the runtime are available",
	Long: `Status prints the binary path, whether the binary is present, the WASI
runtime and whether it can be started, and the release the binary would be
downloaded from. It makes no network requests.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient(io.Discard)
		writeStatus(os.Stdout, client)
		if !client.Available() || !client.RuntimeAvailable() {
			return fmt.Errorf("pandoc-wasm is not ready")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// writeStatus prints a fixed-width summary of the client state to w.
func writeStatus(w io.Writer, c *pandocwasm.Client) {
	cfg := c.Config()
	tag := "latest"
	if v := cfg.Release.Version; v != "" && v != types.LatestVersion {
		tag = release.TagForVersion(v)
	}

	fmt.Fprintf(w, "%-18s %s\n", "binary:", c.BinaryPath())
	fmt.Fprintf(w, "%-18s %s\n", "binary present:", yesNo(c.Available()))
	fmt.Fprintf(w, "%-18s %s\n", "runtime:", c.Runtime())
	fmt.Fprintf(w, "%-18s %s\n", "runtime available:", yesNo(c.RuntimeAvailable()))
	fmt.Fprintf(w, "%-18s %s/%s@%s (%s)\n", "release:", cfg.Release.Owner, cfg.Release.Repo, tag, cfg.Release.AssetName)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
