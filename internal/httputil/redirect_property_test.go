// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pgregory.net/rapid"
)

// countdown serves /left/<k> as a redirect to /left/<k-1>, and /left/0 as
// the final response.
func countdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var k int
		fmt.Sscanf(r.URL.Path, "/left/%d", &k)
		if k == 0 {
			fmt.Fprint(w, "payload")
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/left/%d", k-1), http.StatusTemporaryRedirect)
	}
}

func TestFollowRedirects_BoundProperty(t *testing.T) {
	ts := httptest.NewServer(countdown())
	defer ts.Close()
	client := NoRedirectClient(ts.Client())

	rapid.Check(t, func(rt *rapid.T) {
		hops := rapid.IntRange(0, 2*MaxRedirects).Draw(rt, "hops")
		limit := rapid.IntRange(0, MaxRedirects+2).Draw(rt, "limit")

		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/left/%d", ts.URL, hops), nil)
		if err != nil {
			rt.Fatal(err)
		}
		resp, err := FollowRedirects(client, req, limit)

		if hops <= limit {
			if err != nil {
				rt.Fatalf("%d hops within limit %d: unexpected error %v", hops, limit, err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				rt.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			return
		}
		if !errors.Is(err, ErrTooManyRedirects) {
			rt.Fatalf("%d hops over limit %d: got %v, want ErrTooManyRedirects", hops, limit, err)
		}
	})
}
