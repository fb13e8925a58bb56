// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the resolver and fetcher.
package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxRedirects is the number of redirect responses FollowRedirects accepts
// before giving up.
const MaxRedirects = 10

// ErrTooManyRedirects is returned when a fetch exceeds MaxRedirects.
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusError reports an unexpected HTTP status from the release host.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// NewStatusError builds a StatusError from resp, reading at most 4 KiB of
// the body for context. The body is not closed.
func NewStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{
		URL:        resp.Request.URL.Redacted(),
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// NoRedirectClient returns a shallow copy of client that hands redirect
// responses back to the caller instead of following them, so FollowRedirects
// can apply its own bound.
func NoRedirectClient(client *http.Client) *http.Client {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &c
}

// IsRedirect reports whether code is a redirect status that carries a
// Location header.
func IsRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// FollowRedirects issues req and follows redirect responses itself, up to
// maxRedirects hops. The client must not follow redirects on its own (see
// NoRedirectClient). Relative Location headers are resolved against the
// current URL. Headers of req are carried to every hop.
//
// The final non-redirect response is returned whatever its status; the
// caller owns its body. When maxRedirects is exceeded ErrTooManyRedirects is
// returned.
func FollowRedirects(client *http.Client, req *http.Request, maxRedirects int) (*http.Response, error) {
	current := req
	for redirects := 0; ; {
		resp, err := client.Do(current)
		if err != nil {
			return nil, err
		}
		if !IsRedirect(resp.StatusCode) {
			return resp, nil
		}

		loc := resp.Header.Get("Location")
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		redirects++
		if redirects > maxRedirects {
			return nil, fmt.Errorf("%w (more than %d)", ErrTooManyRedirects, maxRedirects)
		}
		if loc == "" {
			return nil, fmt.Errorf("HTTP %d from %s without Location header", resp.StatusCode, current.URL.Redacted())
		}

		next, err := current.URL.Parse(loc)
		if err != nil {
			return nil, fmt.Errorf("parsing redirect location %q: %w", loc, err)
		}

		current = current.Clone(req.Context())
		current.URL = next
		current.Host = ""
	}
}
