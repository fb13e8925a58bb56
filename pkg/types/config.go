// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// PackageVersion is the release this build of the shim pins to. The
	// release tag for the wasm artifact is derived from it ("1.0.1" -> "v1.0.1").
	PackageVersion = "1.0.1"

	// DefaultAPIBase is the release host API root.
	DefaultAPIBase = "https://api.github.com"
	// DefaultOwner and DefaultRepo identify the repository publishing the artifact.
	DefaultOwner = "NathanHimpens"
	DefaultRepo  = "pandoc-wasm"
	// DefaultAssetName is the release asset holding the wasm binary.
	DefaultAssetName = "pandoc.wasm"
	// DefaultRuntime is the WASI runtime executable used when none is configured.
	DefaultRuntime = "wasmtime"
	// DefaultUserAgent is sent with every request to the release host.
	DefaultUserAgent = "pandoc-wasm-go-downloader"
	// DefaultTimeout bounds a single HTTP exchange (the asset is tens of MB).
	DefaultTimeout = 5 * time.Minute

	// LatestVersion asks the resolver to query the latest release instead of
	// pinning to a version.
	LatestVersion = "latest"
)

// HTTPConfig holds shared HTTP settings for requests to the release host.
type HTTPConfig struct {
	// Timeout is the HTTP client timeout. Zero means DefaultTimeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ReleaseConfig locates the release asset to download.
type ReleaseConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase is the API root of the release host (e.g. "https://api.github.com").
	APIBase string `json:"api_base" yaml:"api_base"`

	// Owner and Repo name the repository whose releases carry the asset.
	Owner string `json:"owner" yaml:"owner"`
	Repo  string `json:"repo" yaml:"repo"`

	// AssetName is the exact asset file name searched for in the release.
	AssetName string `json:"asset_name" yaml:"asset_name"`

	// Version pins the release ("1.0.1" resolves to tag "v1.0.1"). Empty or
	// "latest" queries the latest release.
	Version string `json:"version" yaml:"version"`

	// Token is an optional API token sent to the release host only.
	Token string `json:"-" yaml:"-"`
}

// RuntimeConfig holds the two process-wide settings of the runner. Empty
// fields are defaulted lazily by the accessors.
type RuntimeConfig struct {
	// BinaryPath is the absolute path of the wasm binary.
	BinaryPath string `json:"binary_path" yaml:"binary_path"`

	// Runtime is the WASI runtime executable (e.g. "wasmtime", "wasmer").
	Runtime string `json:"runtime" yaml:"runtime"`
}

// ResolvedBinaryPath returns BinaryPath, or DefaultBinaryPath when unset.
func (c RuntimeConfig) ResolvedBinaryPath() string {
	if c.BinaryPath != "" {
		return c.BinaryPath
	}
	return DefaultBinaryPath()
}

// ResolvedRuntime returns Runtime, or DefaultRuntime when unset.
func (c RuntimeConfig) ResolvedRuntime() string {
	if c.Runtime != "" {
		return c.Runtime
	}
	return DefaultRuntime
}

// Config groups everything a client needs.
type Config struct {
	Release ReleaseConfig `json:"release" yaml:"release"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// DefaultConfig returns a configuration pinned to PackageVersion with the
// default release coordinates. Runtime settings are left empty so they
// default lazily.
func DefaultConfig() Config {
	return Config{
		Release: ReleaseConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			APIBase:   DefaultAPIBase,
			Owner:     DefaultOwner,
			Repo:      DefaultRepo,
			AssetName: DefaultAssetName,
			Version:   PackageVersion,
		},
	}
}

// DefaultBinaryPath is the install location of the wasm binary: next to the
// running executable. If the executable cannot be located it falls back to
// the working directory.
func DefaultBinaryPath() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Join(filepath.Dir(exe), DefaultAssetName)
	}
	abs, err := filepath.Abs(DefaultAssetName)
	if err != nil {
		return DefaultAssetName
	}
	return abs
}
