// Package errs defines the error taxonomy shared by all pdi commands:
// configuration errors carrying field-level validation issues, the
// "not initialized" sentinel, and categorized documentation-fetch errors.
//
// The command layer renders these with a category prefix and an optional
// "Fix:" hint; everything it cannot classify falls through as a generic
// failure with exit code 1.
package errs

import (
	"fmt"
	"strings"
)

// Issue is one schema-validation problem: the JSON path of the offending
// field and a human-readable message.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ConfigError reports an invalid .pdi/config.json.
type ConfigError struct {
	Issues []Issue
	Hint   string
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid configuration"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// NotInitializedError is returned when a command that needs a project
// configuration runs in a directory that has none.
type NotInitializedError struct{}

func (e *NotInitializedError) Error() string {
	return "project is not initialized"
}

// Hint returns the fixed remediation hint for the uninitialized state.
func (e *NotInitializedError) Hint() string {
	return "run `pdi init` in the project root first"
}

// FetchCategory classifies why a documentation fetch failed.
type FetchCategory string

const (
	FetchAuth      FetchCategory = "auth"
	FetchNetwork   FetchCategory = "network"
	FetchRateLimit FetchCategory = "rate_limit"
	FetchRedirect  FetchCategory = "redirect"
	FetchNotFound  FetchCategory = "not_found"
	FetchUnknown   FetchCategory = "unknown"
)

// Source tags which transport produced a fetch error.
type Source string

const (
	SourceHTTP Source = "http"
	SourceMCP  Source = "mcp"
)

// FetchError reports a failed documentation fetch, categorized and tagged
// with the transport that failed.
type FetchError struct {
	Category FetchCategory
	Source   Source
	Hint     string
	Err      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("documentation fetch failed (%s via %s)", e.Category, e.Source)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }
