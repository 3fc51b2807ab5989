// Package cli implements the pdi subcommands. One file per command,
// wired together by App, which carries the injectable collaborators
// (config store, docs-client constructor, registry client) so tests can
// run commands against fakes.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/context7"
	"github.com/pdi-dev/pdi/internal/registry"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App holds the dependencies every command shares.
type App struct {
	Root   string // project root; defaults to the working directory
	Store  config.Store
	Stdout io.Writer
	Stderr io.Writer

	// NewDocsClient builds the Context7 client for a given API key.
	// Swappable in tests.
	NewDocsClient func(apiKey string) (context7.Client, error)
	// Registry resolves latest npm versions. Swappable in tests.
	Registry *registry.Client
}

// NewApp returns an App wired with the real collaborators.
func NewApp() *App {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return &App{
		Root:          root,
		Store:         config.NewFileStore(),
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		NewDocsClient: context7.New,
		Registry:      registry.NewClient(),
	}
}

// Run dispatches a subcommand and returns the process exit code.
// Freshness-specific codes only come out of `status --check`; every
// other failure exits 1 through the central error renderer.
func (a *App) Run(args []string) int {
	if len(args) == 0 {
		a.printUsage()
		return 1
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "init":
		return a.exit(a.Init(rest))
	case "add":
		return a.exit(a.Add(rest))
	case "update":
		return a.exit(a.Update(rest))
	case "status":
		code, err := a.Status(rest)
		if err != nil {
			return a.exit(err)
		}
		return code
	case "generate":
		return a.exit(a.Generate(rest))
	case "clean":
		return a.exit(a.Clean(rest))
	case "auth":
		return a.exit(a.Auth(rest))
	case "doctor":
		return a.exit(a.Doctor(rest))
	case "sync":
		return a.exit(a.Sync(rest))
	case "version", "--version", "-v":
		fmt.Fprintf(a.Stdout, "pdi v%s\n", Version)
		return 0
	case "help", "--help", "-h":
		a.printUsage()
		return 0
	default:
		fmt.Fprintf(a.Stderr, "Unknown command: %s\n\n", cmd)
		a.printUsage()
		return 1
	}
}

func (a *App) exit(err error) int {
	if err == nil {
		return 0
	}
	a.renderError(err)
	return 1
}

func (a *App) printUsage() {
	fmt.Fprintf(a.Stderr, `pdi v%s — local docs cache + CLAUDE.md index for your frameworks

Usage:
  pdi init                      Scaffold .pdi/config.json and the CLAUDE.md index
  pdi add <framework>...        Fetch docs for frameworks and index them
  pdi update [framework...]     Refetch docs (all configured when none named)
  pdi status [--check] [--format json]
                                Compare indexed docs against manifest + registry
  pdi generate                  Rebuild the index from on-disk docs
  pdi clean [framework|--all]   Remove cached docs and index entries
  pdi auth [--key K|--clear]    Manage the Context7 API key
  pdi doctor                    Diagnose config, index, and transports
  pdi sync                      Regenerate the index and refresh lastSync
  pdi version                   Print the version

Status --check exit codes: 0 ok, 1 stale, 2 missing, 3 orphaned,
4 mixed, 5 registry lookup failed.
`, Version)
}
