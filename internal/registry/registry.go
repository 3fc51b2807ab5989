// Package registry resolves the latest published version of npm
// packages, with a bounded concurrent fan-out and a local sqlite cache
// so repeated status checks don't hammer the registry.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// defaultEndpoint is the public npm registry.
	defaultEndpoint = "https://registry.npmjs.org"

	// fetchConcurrency caps simultaneous outbound lookups.
	fetchConcurrency = 5

	// requestTimeout is how long we wait for a single registry response.
	requestTimeout = 10 * time.Second
)

// Client looks up latest package versions. Endpoint and HTTPClient are
// exported so tests can point at an httptest server; Cache is optional.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	Cache      *Cache
}

// NewClient returns a client against the public npm registry.
func NewClient() *Client {
	return &Client{
		Endpoint:   defaultEndpoint,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

type latestResponse struct {
	Version string `json:"version"`
}

// Latest resolves the latest version for each package in one batched,
// concurrency-capped fan-out. Packages the registry cannot answer for
// (non-200) are simply absent from the result map. A transport-level
// failure aborts the whole call with an error — that signals systemic
// trouble (no connectivity), where partial data would be misleading.
func (c *Client) Latest(ctx context.Context, packages []string) (map[string]string, error) {
	results := make(map[string]string, len(packages))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, pkg := range packages {
		pkg := pkg
		if c.Cache != nil {
			if v, ok := c.Cache.Get(pkg); ok {
				mu.Lock()
				results[pkg] = v
				mu.Unlock()
				continue
			}
		}
		g.Go(func() error {
			version, ok, err := c.fetchLatest(ctx, pkg)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			mu.Lock()
			results[pkg] = version
			mu.Unlock()
			if c.Cache != nil {
				_ = c.Cache.Put(pkg, version)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("registry lookup: %w", err)
	}
	return results, nil
}

// fetchLatest queries {endpoint}/{pkg}/latest. ok=false means the
// registry answered but could not provide a version for this package.
func (c *Client) fetchLatest(ctx context.Context, pkg string) (version string, ok bool, err error) {
	url := c.Endpoint + "/" + pkg + "/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("creating request for %s: %w", pkg, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("fetching %s: %w", pkg, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", false, nil
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", false, nil
	}
	if body.Version == "" {
		return "", false, nil
	}
	return body.Version, true, nil
}
