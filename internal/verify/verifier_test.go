package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
	"git.home.luguber.info/inful/mdlinkcheck/internal/config"
)

func testVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := New(config.VerifyConfig{
		RequestTimeout: "5s",
		MaxConcurrent:  2,
		MaxRedirects:   3,
		CachePath:      ":memory:",
		CacheTTL:       "1h",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func externalFinding(target string) checker.Finding {
	return checker.Finding{
		File:    "doc.md",
		Line:    1,
		Target:  target,
		Kind:    checker.KindExternal,
		Verdict: checker.VerdictSkipped,
	}
}

func TestVerifyExternal_ReachableAndUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	v := testVerifier(t)
	outcomes := v.VerifyExternal(context.Background(), []checker.Finding{
		externalFinding(srv.URL + "/ok"),
		externalFinding(srv.URL + "/forbidden"),
		externalFinding(srv.URL + "/gone"),
	})

	require.Len(t, outcomes, 3)
	byURL := map[string]Outcome{}
	for _, o := range outcomes {
		byURL[o.Finding.Target] = o
	}

	assert.True(t, byURL[srv.URL+"/ok"].OK)
	// Auth-gated URLs exist; they are reachable.
	assert.True(t, byURL[srv.URL+"/forbidden"].OK)

	gone := byURL[srv.URL+"/gone"]
	assert.False(t, gone.OK)
	assert.Equal(t, http.StatusNotFound, gone.Status)
	assert.Contains(t, gone.Error, "HTTP 404")
}

func TestVerifyExternal_SecondRunHitsCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := testVerifier(t)
	findings := []checker.Finding{externalFinding(srv.URL + "/page")}

	first := v.VerifyExternal(context.Background(), findings)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)

	second := v.VerifyExternal(context.Background(), findings)
	require.Len(t, second, 1)
	assert.True(t, second[0].Cached)
	assert.Equal(t, 1, hits)
}

func TestVerifyExternal_NonHTTPSchemesIgnored(t *testing.T) {
	v := testVerifier(t)
	outcomes := v.VerifyExternal(context.Background(), []checker.Finding{
		externalFinding("mailto:docs@example.com"),
		{File: "doc.md", Target: "a.md", Kind: checker.KindInternal, Verdict: checker.VerdictOK},
	})
	assert.Empty(t, outcomes)
}
