package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
)

// fakeRegistry serves /{pkg}/latest from a fixed version map and counts
// requests.
func fakeRegistry(t *testing.T, versions map[string]string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		pkg := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/latest")
		v, ok := versions[pkg]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"version":%q}`, v)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLatest(t *testing.T) {
	srv, _ := fakeRegistry(t, map[string]string{
		"react": "19.0.0",
		"vue":   "3.5.1",
	})
	c := &Client{Endpoint: srv.URL, HTTPClient: srv.Client()}

	got, err := c.Latest(context.Background(), []string{"react", "vue", "no-such-pkg"})
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	want := map[string]string{"react": "19.0.0", "vue": "3.5.1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Latest() = %v, want %v", got, want)
	}
}

func TestLatestEmptyInput(t *testing.T) {
	c := &Client{Endpoint: "http://registry.invalid", HTTPClient: http.DefaultClient}
	got, err := c.Latest(context.Background(), nil)
	if err != nil {
		t.Fatalf("Latest(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Latest(nil) = %v, want empty", got)
	}
}

func TestLatestTransportFailure(t *testing.T) {
	srv, _ := fakeRegistry(t, map[string]string{"react": "19.0.0"})
	srv.Close() // connections now refused

	c := &Client{Endpoint: srv.URL, HTTPClient: http.DefaultClient}
	if _, err := c.Latest(context.Background(), []string{"react"}); err == nil {
		t.Fatal("Latest() = nil error on dead endpoint")
	}
}

func TestLatestSkipsUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTPClient: srv.Client()}
	got, err := c.Latest(context.Background(), []string{"react"})
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Latest() = %v, want no results for garbage body", got)
	}
}

func TestLatestUsesCache(t *testing.T) {
	srv, hits := fakeRegistry(t, map[string]string{"react": "19.0.0"})

	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"), 0)
	if err != nil {
		t.Fatalf("OpenCache() error = %v", err)
	}
	defer func() { _ = cache.Close() }()

	c := &Client{Endpoint: srv.URL, HTTPClient: srv.Client(), Cache: cache}

	for i := 0; i < 3; i++ {
		got, err := c.Latest(context.Background(), []string{"react"})
		if err != nil {
			t.Fatalf("Latest() #%d error = %v", i, err)
		}
		if got["react"] != "19.0.0" {
			t.Fatalf("Latest() #%d = %v", i, got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("registry hit %d times, want 1 (cache should absorb repeats)", n)
	}
}
