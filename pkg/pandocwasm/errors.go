// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandocwasm

import (
	"fmt"

	"github.com/nathanhimpens/pandoc-wasm/internal/httputil"
	"github.com/nathanhimpens/pandoc-wasm/internal/wasi"
)

// BinaryNotFoundError is returned by Run when the wasm binary is missing.
type BinaryNotFoundError = wasi.BinaryNotFoundError

// ExecutionError is returned by Run when the binary exits non-zero.
type ExecutionError = wasi.ExecutionError

// StatusError reports an unexpected HTTP status from the release host.
type StatusError = httputil.StatusError

// ErrTooManyRedirects is wrapped by a DownloadError when the asset URL
// redirects more than the allowed number of times.
var ErrTooManyRedirects = httputil.ErrTooManyRedirects

// DownloadError wraps any fatal failure while resolving or fetching the
// binary.
type DownloadError struct {
	Tag string
	Err error
}

func (e *DownloadError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("downloading pandoc.wasm: %v", e.Err)
	}
	return fmt.Sprintf("downloading pandoc.wasm (%s): %v", e.Tag, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
