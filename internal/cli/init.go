package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdi-dev/pdi/internal/config"
)

// Init scaffolds the project: .pdi/config.json, the docs directories,
// and an (initially empty) index block in CLAUDE.md.
func (a *App) Init(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	docsRoot := fs.String("docs-root", config.DefaultDocsRoot, "directory for cached documentation")
	force := fs.Bool("force", false, "reinitialize even if a config already exists")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if config.Exists(a.Root) && !*force {
		return fmt.Errorf("pdi is already initialized here; use --force to reset the config")
	}

	cfg := config.NewProjectConfig()
	cfg.DocsRoot = *docsRoot

	dirs := []string{
		filepath.Join(a.Root, cfg.FrameworksRoot()),
		filepath.Join(a.Root, cfg.InternalRoot()),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := a.Store.Save(a.Root, cfg); err != nil {
		return err
	}

	res, err := a.regenerateIndex(cfg)
	if err != nil {
		return err
	}

	verb := "updated"
	if res.Created {
		verb = "created"
	}
	fmt.Fprintf(a.Stdout, "Initialized pdi.\n")
	fmt.Fprintf(a.Stdout, "  config: %s\n", config.ConfigPath(a.Root))
	fmt.Fprintf(a.Stdout, "  docs:   %s/\n", cfg.DocsRoot)
	fmt.Fprintf(a.Stdout, "  index:  CLAUDE.md %s\n", verb)
	fmt.Fprintf(a.Stdout, "\nNext: run `pdi add <framework>` (e.g. `pdi add react`).\n")
	return nil
}
