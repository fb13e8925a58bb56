// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathanhimpens/pandoc-wasm/pkg/pandocwasm"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download pandoc.wasm from the release matching this version",
	Long: `Download resolves the release tag (v<version>, or the latest release),
locates the pandoc.wasm asset and writes it to the binary path, replacing any
existing file. With --if-missing an existing binary is kept and no request is
made.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().Bool("if-missing", false, "skip the download when the binary already exists")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ifMissing, _ := cmd.Flags().GetBool("if-missing")
	client := newClient(os.Stderr)

	var (
		outcome pandocwasm.Outcome
		err     error
	)
	if ifMissing {
		outcome, err = client.Ensure(cmd.Context())
	} else {
		outcome, err = client.DownloadToBinaryPath(cmd.Context())
	}
	if err != nil {
		return err
	}
	if !outcome.Performed() {
		return fmt.Errorf("pandoc.wasm was not downloaded: %s", outcome)
	}
	return nil
}
