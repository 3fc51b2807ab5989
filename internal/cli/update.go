package cli

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/fetcher"
	"github.com/pdi-dev/pdi/internal/frameworks"
	"github.com/pdi-dev/pdi/internal/manifest"
)

// Update refetches documentation for configured frameworks — all of
// them when none are named.
func (a *App) Update(args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		return err
	}
	deps, err := manifest.Load(a.Root)
	if err != nil {
		return err
	}

	keys := fs.Args()
	if len(keys) == 0 {
		for key := range cfg.Frameworks {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}
	if len(keys) == 0 {
		return fmt.Errorf("nothing to update; add a framework first with `pdi add`")
	}

	client, err := a.NewDocsClient(cfg.APIKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	source := config.SourceContext7MCP
	if cfg.APIKey != "" {
		source = config.SourceContext7HTTP
	}

	f := fetcher.New(client)
	ctx := context.Background()

	for _, key := range keys {
		fc, ok := cfg.Frameworks[key]
		if !ok {
			return fmt.Errorf("framework %q is not configured; add it with `pdi add %s`", key, key)
		}
		fw, known := frameworks.Lookup(key)
		if !known {
			return fmt.Errorf("framework %q is no longer in the catalog; remove it with `pdi clean %s`", key, key)
		}

		libraryID := fc.LibraryID
		if libraryID == "" {
			libraryID = fw.LibraryID
		}

		fmt.Fprintf(a.Stdout, "Updating %s docs...\n", fw.DisplayName)
		results, err := f.FetchFramework(ctx, filepath.Join(a.Root, cfg.FrameworksRoot()), fw, libraryID)
		if err != nil {
			return err
		}
		files, categories, firstErr := fetcher.Summarize(results)
		if files == 0 {
			return fmt.Errorf("no docs fetched for %s: %w", fw.DisplayName, firstErr)
		}
		if firstErr != nil {
			fmt.Fprintf(a.Stderr, "Warning: some %s topics failed: %v\n", fw.DisplayName, firstErr)
		}

		fc.Version = indexedVersion(deps[frameworks.ExactPackage(fw)])
		fc.Source = source
		fc.LibraryID = libraryID
		fc.LastUpdate = time.Now().UTC().Format(time.RFC3339)
		fc.Files = files
		fc.Categories = categories
		cfg.Frameworks[key] = fc

		fmt.Fprintf(a.Stdout, "  %d files in %s\n", files, strings.Join(categories, ", "))
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
