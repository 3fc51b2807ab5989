// Package context7 fetches documentation text from the Context7 service
// over two transports: a direct HTTP API call (preferred, needs an API
// key) and an MCP stdio subprocess fallback (needs npx on PATH).
//
// Both transports return the same surface: plain documentation text or a
// categorized *errs.FetchError tagged with the transport that failed.
package context7

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/pdi-dev/pdi/internal/errs"
)

// Client is the documentation-fetch surface consumed by the fetcher.
type Client interface {
	// ResolveLibrary maps a library name ("react") to a
	// Context7-compatible library ID ("/facebook/react").
	ResolveLibrary(ctx context.Context, name string) (string, error)
	// QueryDocs fetches documentation text for a library ID, focused on
	// the given topic.
	QueryDocs(ctx context.Context, libraryID, topic string) (string, error)
	// Close releases transport resources (the MCP child process).
	Close() error
}

// libraryIDRe validates the /org/project[/version] format.
var libraryIDRe = regexp.MustCompile(`^/[^/\s]+/[^/\s]+(/[^/\s]+)?$`)

// ValidateLibraryID checks the Context7 library ID format.
func ValidateLibraryID(id string) error {
	if !libraryIDRe.MatchString(id) {
		return fmt.Errorf("library ID %q must look like /org/project or /org/project/version", id)
	}
	return nil
}

// New selects a transport: HTTP when an API key is configured, otherwise
// the MCP subprocess when npx is available. HTTP is preferred because it
// avoids spawning a node process per session.
func New(apiKey string) (Client, error) {
	if apiKey != "" {
		return NewHTTPClient(apiKey), nil
	}
	if _, err := exec.LookPath("npx"); err == nil {
		return NewMCPClient(), nil
	}
	return nil, &errs.FetchError{
		Category: errs.FetchAuth,
		Source:   errs.SourceHTTP,
		Hint:     "set an API key with `pdi auth --key <key>` or install Node.js so the MCP fallback can run",
		Err:      fmt.Errorf("no Context7 transport available"),
	}
}
