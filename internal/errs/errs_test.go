package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Issues: []Issue{
		{Path: "Frameworks[react].Version", Message: "is required"},
		{Path: "DocsRoot", Message: "is required"},
	}}
	want := "invalid configuration: Frameworks[react].Version: is required; DocsRoot: is required"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	empty := &ConfigError{}
	if got := empty.Error(); got != "invalid configuration" {
		t.Errorf("empty Error() = %q", got)
	}
}

func TestFetchErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &FetchError{Category: FetchNetwork, Source: SourceHTTP, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the wrapped cause")
	}
	want := "documentation fetch failed (network via http): connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFetchErrorAsFromWrapped(t *testing.T) {
	inner := &FetchError{Category: FetchAuth, Source: SourceMCP}
	wrapped := fmt.Errorf("adding react: %w", inner)

	var ferr *FetchError
	if !errors.As(wrapped, &ferr) || ferr.Category != FetchAuth {
		t.Errorf("errors.As failed on wrapped FetchError: %v", wrapped)
	}
}

func TestNotInitializedError(t *testing.T) {
	err := &NotInitializedError{}
	if err.Error() != "project is not initialized" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Hint() == "" {
		t.Error("Hint() is empty")
	}
}
