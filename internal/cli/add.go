package cli

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/fetcher"
	"github.com/pdi-dev/pdi/internal/frameworks"
	"github.com/pdi-dev/pdi/internal/manifest"
)

// Add fetches documentation for one or more frameworks and records them
// in the config and the index.
func (a *App) Add(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	detect := fs.Bool("detect", false, "add every framework detected in package.json")
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
	if *detect {
		keys = append(keys, frameworks.DetectAll(deps)...)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no frameworks given; name one (%s) or pass --detect",
			strings.Join(frameworks.Keys(), ", "))
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

	for _, key := range dedupe(keys) {
		fw, ok := frameworks.Lookup(key)
		if !ok {
			return fmt.Errorf("unknown framework %q; available: %s", key, strings.Join(frameworks.Keys(), ", "))
		}

		libraryID := fw.LibraryID
		if libraryID == "" {
			libraryID, err = client.ResolveLibrary(ctx, key)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(a.Stdout, "Fetching %s docs...\n", fw.DisplayName)
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

		cfg.Frameworks[key] = config.FrameworkConfig{
			Version:    indexedVersion(deps[frameworks.ExactPackage(fw)]),
			Source:     source,
			LibraryID:  libraryID,
			LastUpdate: time.Now().UTC().Format(time.RFC3339),
			Files:      files,
			Categories: categories,
		}
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

func dedupe(keys []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
