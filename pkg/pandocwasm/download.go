// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandocwasm

import (
	"context"
	"fmt"

	"github.com/nathanhimpens/pandoc-wasm/internal/release"
	"github.com/nathanhimpens/pandoc-wasm/internal/wasi"
)

// Outcome is the non-error result of a download attempt.
type Outcome int

const (
	// Downloaded means the binary was fetched and written to BinaryPath.
	Downloaded Outcome = iota
	// AlreadyPresent means the binary existed and nothing was fetched.
	AlreadyPresent
	// ReleaseMissing means the host has no release for the resolved tag.
	ReleaseMissing
	// AssetMissing means the release exists but carries no matching asset.
	AssetMissing
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case AlreadyPresent:
		return "already present"
	case ReleaseMissing:
		return "release missing"
	case AssetMissing:
		return "asset missing"
	default:
		return "unknown"
	}
}

// Performed reports whether the binary is on disk after the attempt.
func (o Outcome) Performed() bool {
	return o == Downloaded || o == AlreadyPresent
}

// DownloadToBinaryPath resolves the release tag, locates the asset, and
// downloads it to BinaryPath, replacing any existing file. A missing release
// or asset is reported through the outcome; fatal failures are returned as
// *DownloadError and leave no file behind.
func (c *Client) DownloadToBinaryPath(ctx context.Context) (Outcome, error) {
	r := c.resolver()

	tag, err := r.ResolveTag(ctx, c.cfg.Release.Version)
	if err != nil {
		return 0, &DownloadError{Err: err}
	}

	name := c.cfg.Release.AssetName
	lookup, err := r.FindAsset(ctx, tag, name)
	if err != nil {
		return 0, &DownloadError{Tag: tag, Err: err}
	}

	switch lookup.Status {
	case release.ReleaseNotFound:
		fmt.Fprintf(c.log, "Release %s not found. Skipping download.\n", tag)
		return ReleaseMissing, nil
	case release.AssetNotFound:
		fmt.Fprintf(c.log, "Asset %s not found in release %s.\n", name, tag)
		return AssetMissing, nil
	}

	fmt.Fprintf(c.log, "Downloading %s from release %s...\n", name, tag)
	fmt.Fprintf(c.log, "Size: %.2f MB\n", lookup.Asset.SizeMB())

	target := c.BinaryPath()
	if err := c.fetcher().Download(ctx, lookup.Asset, target); err != nil {
		return 0, &DownloadError{Tag: tag, Err: err}
	}

	fmt.Fprintf(c.log, "Successfully downloaded %s to %s\n", name, target)
	return Downloaded, nil
}

// Ensure makes sure the binary is present. When a file already exists at
// BinaryPath no request is made and the file is left untouched.
func (c *Client) Ensure(ctx context.Context) (Outcome, error) {
	if wasi.IsRegularFile(c.BinaryPath()) {
		fmt.Fprintf(c.log, "%s already exists. Skipping download.\n", c.BinaryPath())
		return AlreadyPresent, nil
	}
	return c.DownloadToBinaryPath(ctx)
}

// Install runs Ensure for an installation step that must not fail: when the
// binary cannot be obtained it prints how to provide it manually and returns
// the outcome. The error, if any, is returned for reporting only.
func (c *Client) Install(ctx context.Context) (Outcome, error) {
	outcome, err := c.Ensure(ctx)
	switch {
	case err != nil:
		fmt.Fprintf(c.log, "Error downloading %s: %v\n", c.cfg.Release.AssetName, err)
		fmt.Fprintln(c.log, "\nYou can:")
		fmt.Fprintln(c.log, "1. Build it yourself following the instructions in the README")
		fmt.Fprintln(c.log, "2. Manually download it from a release")
		fmt.Fprintf(c.log, "3. Copy it to %s\n", c.BinaryPath())
		fmt.Fprintf(c.log, "\nInstallation will continue, but %s must be added manually.\n", c.cfg.Release.AssetName)
	case !outcome.Performed():
		fmt.Fprintf(c.log, "\n%s was not downloaded automatically.\n", c.cfg.Release.AssetName)
		fmt.Fprintln(c.log, "This is normal if no release exists yet.")
		fmt.Fprintln(c.log, "\nTo use this package, you need to:")
		fmt.Fprintln(c.log, "1. Build it yourself (see README)")
		fmt.Fprintf(c.log, "2. Create a release with %s attached\n", c.cfg.Release.AssetName)
		fmt.Fprintf(c.log, "3. Or copy %s to %s\n", c.cfg.Release.AssetName, c.BinaryPath())
	}
	return outcome, err
}
