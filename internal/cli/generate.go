package cli

import (
	"flag"
	"fmt"

	"github.com/pdi-dev/pdi/internal/index"
)

// Generate rebuilds the index sections from the docs tree and resplices
// CLAUDE.md. Useful after hand-editing docs files or pulling a branch
// that changed them.
func (a *App) Generate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		return err
	}

	sections, mappings, err := a.buildSections(cfg)
	if err != nil {
		return err
	}
	block := index.GenerateBlock(sections, mappings)
	res, err := index.Splice(a.claudePath(), block)
	if err != nil {
		return err
	}

	verb := "updated"
	if res.Created {
		verb = "created"
	}
	fmt.Fprintf(a.Stdout, "CLAUDE.md %s: %d sections, %.1f KB\n",
		verb, len(sections), index.SizeKB(sections, mappings))
	return nil
}
