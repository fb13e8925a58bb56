// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials for the release host from a directory of
// plain-text files. The filename is the key and the trimmed contents are the
// value. The only key consumed today is github-token, which raises the API
// rate limit for release lookups.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDir is the secrets directory relative to the working directory.
	DefaultDir = ".secrets"

	// GitHubTokenKey is the file name holding the release host API token.
	GitHubTokenKey = "github-token"
)

// tokenEnv lists environment variables consulted when no token file exists,
// in order of preference.
var tokenEnv = []string{"PANDOC_WASM_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// Load reads all regular files in dir and returns a map of filename to
// trimmed contents. A missing directory yields an empty map. Unreadable files
// are reported on w and skipped.
func Load(dir string, w io.Writer) (map[string]string, error) {
	if w == nil {
		w = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			found[name] = value
		}
	}
	return found, nil
}

// Token returns the API token for the release host. The github-token entry of
// loaded wins; otherwise the first non-empty variable of tokenEnv is used.
// An empty string means anonymous access.
func Token(loaded map[string]string, getenv func(string) string) string {
	if v := loaded[GitHubTokenKey]; v != "" {
		return v
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, key := range tokenEnv {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
	}
	return ""
}
