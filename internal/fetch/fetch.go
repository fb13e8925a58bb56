// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch streams release assets to disk.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nathanhimpens/pandoc-wasm/internal/httputil"
	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

// ExecutableMode is applied to the downloaded binary.
const ExecutableMode os.FileMode = 0o755

// Fetcher downloads assets. It follows redirects itself, bounded by
// httputil.MaxRedirects.
type Fetcher struct {
	client    *http.Client
	userAgent string
	w         io.Writer
}

// NewFetcher returns a fetcher. Progress lines are written to w.
func NewFetcher(client *http.Client, userAgent string, w io.Writer) *Fetcher {
	if w == nil {
		w = io.Discard
	}
	return &Fetcher{
		client:    httputil.NoRedirectClient(client),
		userAgent: userAgent,
		w:         w,
	}
}

// Download streams asset to target. Parent directories are created as needed.
// The body goes to a temporary file next to target which is renamed into place
// only after the whole body has been written and made executable; on any
// failure the temporary file is removed and target is left absent.
func (f *Fetcher) Download(ctx context.Context, asset types.Asset, target string) error {
	if asset.BrowserDownloadURL == "" {
		return fmt.Errorf("asset %s has no download URL", asset.Name)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".pandoc-wasm-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if err := f.stream(ctx, asset.BrowserDownloadURL, tmpFile); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, ExecutableMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting executable mode: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// stream GETs url, following redirects, and copies the final 2xx body to dst
// without buffering it in memory.
func (f *Fetcher) stream(ctx context.Context, url string, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := httputil.FollowRedirects(f.client, req, httputil.MaxRedirects)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("failed to download asset: %w", httputil.NewStatusError(resp))
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return fmt.Errorf("writing download: %w", err)
	}
	fmt.Fprintf(f.w, "  received %.2f MB\n", float64(n)/1024/1024)
	return nil
}
