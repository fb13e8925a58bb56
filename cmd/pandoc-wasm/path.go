// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of pandoc.wasm",
	Long: `Path prints where pandoc.wasm is expected. The path is printed even when
the file is missing, with a warning on stderr.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient(io.Discard)
		if !client.Available() {
			fmt.Fprintln(os.Stderr, "warning: pandoc.wasm not found. It is normally fetched on install; try: pandoc-wasm install")
		}
		fmt.Println(client.BinaryPath())
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
