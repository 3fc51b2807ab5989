package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdi-dev/pdi/internal/errs"
)

// renderError prints a structured error with its category prefix and an
// optional "Fix:" hint. PDI_DEBUG=1 additionally prints the full error
// chain for diagnosis.
func (a *App) renderError(err error) {
	var cfgErr *errs.ConfigError
	var niErr *errs.NotInitializedError
	var fetchErr *errs.FetchError

	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintln(a.Stderr, "Configuration error:")
		for _, issue := range cfgErr.Issues {
			fmt.Fprintf(a.Stderr, "  - %s: %s\n", issue.Path, issue.Message)
		}
		if cfgErr.Hint != "" {
			fmt.Fprintf(a.Stderr, "Fix: %s\n", cfgErr.Hint)
		}
	case errors.As(err, &niErr):
		fmt.Fprintf(a.Stderr, "Error: %s\n", niErr.Error())
		fmt.Fprintf(a.Stderr, "Fix: %s\n", niErr.Hint())
	case errors.As(err, &fetchErr):
		fmt.Fprintf(a.Stderr, "Fetch error [%s/%s]: %v\n", fetchErr.Category, fetchErr.Source, err)
		if fetchErr.Hint != "" {
			fmt.Fprintf(a.Stderr, "Fix: %s\n", fetchErr.Hint)
		}
	default:
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	}

	if os.Getenv("PDI_DEBUG") == "1" {
		fmt.Fprintf(a.Stderr, "debug: %+v\n", err)
	}
}
