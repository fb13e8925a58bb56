// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package release maps package versions to release tags and locates the wasm
// asset inside a release published on a GitHub-compatible host.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nathanhimpens/pandoc-wasm/internal/httputil"
	"github.com/nathanhimpens/pandoc-wasm/pkg/types"
)

const acceptReleaseJSON = "application/vnd.github.v3+json"

// LookupStatus is the outcome of an asset lookup. Only Found carries an asset;
// the other states are expected, non-fatal results.
type LookupStatus int

const (
	Found LookupStatus = iota
	ReleaseNotFound
	AssetNotFound
)

func (s LookupStatus) String() string {
	switch s {
	case Found:
		return "found"
	case ReleaseNotFound:
		return "release not found"
	case AssetNotFound:
		return "asset not found"
	default:
		return "unknown"
	}
}

// AssetLookup is the result of FindAsset.
type AssetLookup struct {
	Status LookupStatus
	Tag    string
	Asset  types.Asset
}

// Resolver talks to the release host API.
type Resolver struct {
	client *http.Client
	cfg    types.ReleaseConfig
}

// NewResolver returns a resolver using client for API requests.
func NewResolver(client *http.Client, cfg types.ReleaseConfig) *Resolver {
	return &Resolver{client: client, cfg: cfg}
}

// TagForVersion maps a version to its release tag by prefixing "v"
// ("1.0.1" -> "v1.0.1"). A version that already starts with "v" is kept.
func TagForVersion(version string) string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(version), "v")
}

// ResolveTag returns the release tag to download. A pinned version maps
// directly to its tag with no network call. An empty version or "latest"
// queries the latest release; when the host has no release yet, the tag of
// types.PackageVersion is returned instead.
func (r *Resolver) ResolveTag(ctx context.Context, version string) (string, error) {
	version = strings.TrimSpace(version)
	if version != "" && version != types.LatestVersion {
		return TagForVersion(version), nil
	}

	tag, found, err := r.LatestTag(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		return TagForVersion(types.PackageVersion), nil
	}
	return tag, nil
}

// LatestTag fetches the tag of the latest release. found is false when the
// host answers 404 (no release published yet).
func (r *Resolver) LatestTag(ctx context.Context) (tag string, found bool, err error) {
	rel, found, err := r.fetchRelease(ctx, "latest")
	if err != nil || !found {
		return "", found, err
	}
	if rel.TagName == "" {
		return "", false, fmt.Errorf("latest release has no tag_name")
	}
	return rel.TagName, true, nil
}

// FindAsset fetches the release for tag and searches its assets for an exact
// name match. A missing release or asset is reported through the lookup
// status, not as an error.
func (r *Resolver) FindAsset(ctx context.Context, tag, name string) (AssetLookup, error) {
	lookup := AssetLookup{Tag: tag}

	rel, found, err := r.fetchRelease(ctx, "tags/"+url.PathEscape(tag))
	if err != nil {
		return lookup, err
	}
	if !found {
		lookup.Status = ReleaseNotFound
		return lookup, nil
	}

	for _, a := range rel.Assets {
		if a.Name == name {
			lookup.Status = Found
			lookup.Asset = a
			return lookup, nil
		}
	}
	lookup.Status = AssetNotFound
	return lookup, nil
}

// ReleaseURL returns the API URL for a release path such as "latest" or
// "tags/v1.0.1".
func (r *Resolver) ReleaseURL(path string) string {
	base := strings.TrimRight(r.cfg.APIBase, "/")
	return fmt.Sprintf("%s/repos/%s/%s/releases/%s", base, r.cfg.Owner, r.cfg.Repo, path)
}

// fetchRelease GETs and decodes one release. found is false on 404; any other
// non-200 status is an error.
func (r *Resolver) fetchRelease(ctx context.Context, path string) (types.Release, bool, error) {
	var rel types.Release
	apiURL := r.ReleaseURL(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return rel, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.cfg.UserAgent)
	req.Header.Set("Accept", acceptReleaseJSON)
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return rel, false, fmt.Errorf("fetching release info: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return rel, false, nil
	default:
		return rel, false, httputil.NewStatusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return rel, false, fmt.Errorf("parsing release data: %w", err)
	}
	return rel, true, nil
}
