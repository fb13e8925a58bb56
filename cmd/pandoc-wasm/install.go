// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Fetch pandoc.wasm if missing; never fails",
	Long: `Install is meant for package postinstall hooks. It downloads pandoc.wasm
when the binary is missing and, if that is not possible, prints how to provide
it manually. It always exits successfully.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		newClient(os.Stderr).Install(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
