package verify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"git.home.luguber.info/inful/mdlinkcheck/internal/checker"
	"git.home.luguber.info/inful/mdlinkcheck/internal/config"
	"git.home.luguber.info/inful/mdlinkcheck/internal/logfields"
	"git.home.luguber.info/inful/mdlinkcheck/internal/version"
)

// Outcome is the advisory result of probing one external link. External
// links never fail a scan; unreachable ones are reported as warnings.
type Outcome struct {
	Finding checker.Finding
	Status  int
	OK      bool
	Error   string
	Cached  bool
}

// Verifier probes external links over HTTP with bounded concurrency and a
// persistent result cache.
type Verifier struct {
	cfg    config.VerifyConfig
	cache  *Cache
	client *http.Client
	sem    chan struct{}
}

// New creates a verifier from configuration. The cache lives at
// cfg.CachePath, defaulting to the user cache directory.
func New(cfg config.VerifyConfig) (*Verifier, error) {
	cachePath := cfg.CachePath
	if cachePath == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		cachePath = filepath.Join(base, "mdlinkcheck", "links.db")
	}

	cache, err := OpenCache(cachePath, cfg.TTL())
	if err != nil {
		return nil, fmt.Errorf("failed to open link cache: %w", err)
	}

	// The transport clone respects HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
	transport := http.DefaultTransport.(*http.Transport).Clone()

	client := &http.Client{
		Timeout:   cfg.Timeout(),
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}

	return &Verifier{
		cfg:    cfg,
		cache:  cache,
		client: client,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
	}, nil
}

// VerifyExternal probes every http/https finding and returns outcomes sorted
// by file and line. Other schemes (mailto, ftp, ...) are left alone.
func (v *Verifier) VerifyExternal(ctx context.Context, findings []checker.Finding) []Outcome {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []Outcome
	)

	for _, f := range findings {
		if f.Kind != checker.KindExternal || !isHTTP(f.Target) {
			continue
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return sortOutcomes(outcomes)
		case v.sem <- struct{}{}:
		}

		wg.Add(1)
		go func(f checker.Finding) {
			defer wg.Done()
			defer func() { <-v.sem }()

			outcome := v.verifyOne(ctx, f)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}(f)
	}

	wg.Wait()
	return sortOutcomes(outcomes)
}

func sortOutcomes(outcomes []Outcome) []Outcome {
	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Finding.File != outcomes[j].Finding.File {
			return outcomes[i].Finding.File < outcomes[j].Finding.File
		}
		return outcomes[i].Finding.Line < outcomes[j].Finding.Line
	})
	return outcomes
}

func (v *Verifier) verifyOne(ctx context.Context, f checker.Finding) Outcome {
	if cached, err := v.cache.Get(ctx, f.Target); err != nil {
		slog.Debug("Cache lookup error", logfields.URL(f.Target), logfields.Error(err))
	} else if v.cache.Valid(cached) {
		return Outcome{Finding: f, Status: cached.Status, OK: cached.OK, Error: cached.Error, Cached: true}
	}

	status, err := v.probe(ctx, f.Target)

	entry := &CacheEntry{
		URL:       f.Target,
		Status:    status,
		OK:        err == nil,
		CheckedAt: time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if cacheErr := v.cache.Put(ctx, entry); cacheErr != nil {
		slog.Warn("Failed to update link cache", logfields.URL(f.Target), logfields.Error(cacheErr))
	}

	return Outcome{Finding: f, Status: status, OK: err == nil, Error: entry.Error}
}

// probe issues a HEAD request against the URL.
func (v *Verifier) probe(ctx context.Context, linkURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, linkURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "mdlinkcheck/"+version.Version)

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore close errors after reading
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	// Authentication/authorization responses mean the URL exists but wants
	// credentials; treat them as reachable.
	if isAuthStatus(resp.StatusCode) {
		return resp.StatusCode, nil
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return resp.StatusCode, nil
}

// isAuthStatus returns true for status codes that indicate authentication or
// authorization issues rather than broken links.
func isAuthStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusMethodNotAllowed:
		return true
	}
	return false
}

func isHTTP(target string) bool {
	u, err := url.Parse(target)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Close releases the verifier's cache.
func (v *Verifier) Close() error {
	return v.cache.Close()
}
