// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pandoc-wasm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pandoc-wasm %s (pandoc.wasm release v%s)\n", version, types.PackageVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
