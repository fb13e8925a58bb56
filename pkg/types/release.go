// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the release resolver,
// the asset fetcher, the wasm runner, and the CLI.
package types

// Release is the subset of release metadata the resolver needs.
type Release struct {
	// TagName is the release tag (e.g. "v1.0.1").
	TagName string `json:"tag_name" yaml:"tag_name"`

	// Assets lists the files attached to the release, in host order.
	Assets []Asset `json:"assets" yaml:"assets"`
}

// Asset is a named file attached to a release.
type Asset struct {
	Name string `json:"name" yaml:"name"`

	// Size is the asset size in bytes as reported by the host.
	Size int64 `json:"size" yaml:"size"`

	// BrowserDownloadURL is the public download URL; fetching it usually
	// redirects to object storage.
	BrowserDownloadURL string `json:"browser_download_url" yaml:"browser_download_url"`
}

// SizeMB returns the asset size in mebibytes.
func (a Asset) SizeMB() float64 {
	return float64(a.Size) / 1024 / 1024
}
