package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Clean removes cached docs and config entries for the named frameworks
// (or all of them with --all), then regenerates the index so the pruned
// entries disappear from CLAUDE.md too.
func (a *App) Clean(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	all := fs.Bool("all", false, "remove every cached framework")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		return err
	}

	keys := fs.Args()
	if *all {
		keys = keys[:0]
		for key := range cfg.Frameworks {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}
	if len(keys) == 0 {
		return fmt.Errorf("nothing to clean; name a framework or pass --all")
	}

	for _, key := range keys {
		if _, ok := cfg.Frameworks[key]; !ok {
			return fmt.Errorf("framework %q is not configured (have: %s)",
				key, strings.Join(configuredKeys(cfg.Frameworks), ", "))
		}
		docsDir := filepath.Join(a.Root, cfg.FrameworksRoot(), key)
		if err := os.RemoveAll(docsDir); err != nil {
			return fmt.Errorf("removing %s: %w", docsDir, err)
		}
		delete(cfg.Frameworks, key)
		fmt.Fprintf(a.Stdout, "Removed %s docs.\n", key)
	}

	if err := a.Store.Save(a.Root, cfg); err != nil {
		return err
	}
	if _, err := a.regenerateIndex(cfg); err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout, "Index regenerated.")
	return nil
}

func configuredKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
