// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pandoc-wasm CLI. It downloads the
// prebuilt pandoc.wasm release asset and runs it through a WASI runtime.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nathanhimpens/pandoc-wasm/internal/secrets"
	"github.com/nathanhimpens/pandoc-wasm/pkg/pandocwasm"
	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// Viper keys. They match the YAML layout of types.Config so that the output
// of `pandoc-wasm config` is a valid config file.
const (
	keyBinaryPath = "runtime.binary_path"
	keyRuntime    = "runtime.runtime"
	keyVersion    = "release.version"
	keyAPIBase    = "release.api_base"
	keyOwner      = "release.owner"
	keyRepo       = "release.repo"
	keyAssetName  = "release.asset_name"
	keyTimeout    = "release.timeout"
	keyUserAgent  = "release.user_agent"
	keySecretsDir = "secrets_dir"
)

// envNames maps viper keys to their environment variables. Only these names
// are bound so that PANDOC_WASM_RUNTIME never shadows the runtime section.
var envNames = map[string]string{
	keyBinaryPath: "PANDOC_WASM_BINARY_PATH",
	keyRuntime:    "PANDOC_WASM_RUNTIME",
	keyVersion:    "PANDOC_WASM_VERSION",
	keyAPIBase:    "PANDOC_WASM_API_BASE",
	keyOwner:      "PANDOC_WASM_OWNER",
	keyRepo:       "PANDOC_WASM_REPO",
	keyAssetName:  "PANDOC_WASM_ASSET_NAME",
	keyTimeout:    "PANDOC_WASM_TIMEOUT",
	keyUserAgent:  "PANDOC_WASM_USER_AGENT",
	keySecretsDir: "PANDOC_WASM_SECRETS_DIR",
}

// rootCmd is the base command for the pandoc-wasm CLI.
var rootCmd = &cobra.Command{
	Use:   "pandoc-wasm",
	Short: "Download and run pandoc compiled to WebAssembly",
	Long: `pandoc-wasm fetches a prebuilt pandoc.wasm from the project's releases and
runs it under a WASI runtime (wasmtime by default, or the embedded wazero
runtime with --runtime wazero).

Use install as a postinstall step, download to force a fresh copy, and run or
convert to invoke pandoc.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(viper.GetString(keySecretsDir), os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pandoc-wasm.yaml or ~/.config/pandoc-wasm/pandoc-wasm.yaml)")
	pf.String("binary-path", "", "path of pandoc.wasm (default: next to this executable)")
	pf.String("runtime", "", "WASI runtime executable, or \"wazero\" for the embedded runtime (default: wasmtime)")
	pf.String("release-version", "", "release to download: a version like 1.0.1, or \"latest\"")

	viper.BindPFlag(keyBinaryPath, pf.Lookup("binary-path"))
	viper.BindPFlag(keyRuntime, pf.Lookup("runtime"))
	viper.BindPFlag(keyVersion, pf.Lookup("release-version"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pandoc-wasm")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pandoc-wasm"))
		}
	}

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers default values and environment bindings on v.
func setDefaults(v *viper.Viper) {
	def := types.DefaultConfig()
	v.SetDefault(keyVersion, def.Release.Version)
	v.SetDefault(keyAPIBase, def.Release.APIBase)
	v.SetDefault(keyOwner, def.Release.Owner)
	v.SetDefault(keyRepo, def.Release.Repo)
	v.SetDefault(keyAssetName, def.Release.AssetName)
	v.SetDefault(keyTimeout, def.Release.Timeout)
	v.SetDefault(keyUserAgent, def.Release.UserAgent)
	v.SetDefault(keySecretsDir, secrets.DefaultDir)

	for key, env := range envNames {
		v.BindEnv(key, env)
	}
}

// configFrom builds the client configuration from v. token is the API token
// for the release host, possibly empty.
func configFrom(v *viper.Viper, token string) types.Config {
	cfg := types.DefaultConfig()
	cfg.Release.APIBase = v.GetString(keyAPIBase)
	cfg.Release.Owner = v.GetString(keyOwner)
	cfg.Release.Repo = v.GetString(keyRepo)
	cfg.Release.AssetName = v.GetString(keyAssetName)
	cfg.Release.Version = v.GetString(keyVersion)
	cfg.Release.Timeout = v.GetDuration(keyTimeout)
	cfg.Release.UserAgent = v.GetString(keyUserAgent)
	cfg.Release.Token = token
	cfg.Runtime.BinaryPath = v.GetString(keyBinaryPath)
	cfg.Runtime.Runtime = v.GetString(keyRuntime)
	return cfg
}

// newClient returns a client configured from flags, environment, config file
// and secrets. Progress messages go to log.
func newClient(log io.Writer) *pandocwasm.Client {
	cfg := configFrom(viper.GetViper(), secrets.Token(loadedSecrets, os.Getenv))
	return pandocwasm.New(cfg, pandocwasm.WithLog(log))
}

// reportError prints err to w and returns the process exit status. A pandoc
// ExecutionError is not printed: its output was already echoed by the
// command, and pandoc's status is returned as is.
func reportError(w io.Writer, err error) int {
	var ee *pandocwasm.ExecutionError
	if errors.As(err, &ee) {
		if ee.ExitCode > 0 {
			return ee.ExitCode
		}
		return 1
	}
	fmt.Fprintln(w, "Error:", err)
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}
