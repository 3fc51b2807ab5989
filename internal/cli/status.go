package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/freshness"
	"github.com/pdi-dev/pdi/internal/manifest"
	"github.com/pdi-dev/pdi/internal/registry"
)

// Status runs the freshness check. The returned int is the process exit
// code: freshness codes with --check, otherwise 0 on success.
func (a *App) Status(args []string) (int, error) {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	check := fs.Bool("check", false, "exit with the freshness code table (for CI)")
	format := fs.String("format", "text", "output format: text or json")
	staleDays := fs.Int("stale-days", freshness.DefaultStaleDays, "age threshold for timestamp-based staleness")
	noCache := fs.Bool("no-cache", false, "bypass the registry version cache")
	if err := fs.Parse(args); err != nil {
		return 1, err
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		return 1, err
	}
	deps, err := manifest.Load(a.Root)
	if err != nil {
		return 1, err
	}

	client := *a.Registry
	if !*noCache && client.Cache == nil {
		if cache, err := registry.OpenCache(config.CachePath(a.Root), registry.DefaultTTL); err == nil {
			client.Cache = cache
			defer func() { _ = cache.Close() }()
		}
		// A broken cache is not fatal — lookups just skip it.
	}

	out := freshness.CheckFreshness(context.Background(), cfg, deps, freshness.Options{
		FetchLatest: client.Latest,
		StaleDays:   *staleDays,
	})

	switch *format {
	case "json":
		enc := json.NewEncoder(a.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return 1, err
		}
	case "text":
		a.printStatusTable(out)
	default:
		return 1, fmt.Errorf("unknown format %q (want text or json)", *format)
	}

	if *check {
		return out.ExitCode, nil
	}
	return 0, nil
}

func (a *App) printStatusTable(out freshness.Output) {
	if len(out.Results) == 0 {
		if out.ExitCode == freshness.ExitNetworkError {
			fmt.Fprintln(a.Stdout, "Registry lookup failed; no results.")
		} else {
			fmt.Fprintln(a.Stdout, "No frameworks configured and none detected.")
		}
		return
	}

	w := tabwriter.NewWriter(a.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMEWORK\tINDEXED\tLATEST\tSTATUS\tWHY")
	for _, r := range out.Results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.DisplayName, dash(r.IndexedVersion), dash(r.LatestVersion), r.Status, dash(r.DiffType))
	}
	_ = w.Flush()

	fmt.Fprintf(a.Stdout, "\n%d up-to-date, %d stale, %d missing, %d orphaned, %d unknown\n",
		out.Summary.UpToDate, out.Summary.Stale, out.Summary.Missing,
		out.Summary.Orphaned, out.Summary.Unknown)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Sync regenerates the index from on-disk docs and refreshes lastSync.
// No network involved.
func (a *App) Sync(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		return err
	}

	res, err := a.regenerateIndex(cfg)
	if err != nil {
		return err
	}

	cfg.LastSync = time.Now().UTC().Format(time.RFC3339)
	if err := a.Store.Save(a.Root, cfg); err != nil {
		return err
	}

	verb := "updated"
	if res.Created {
		verb = "created"
	}
	fmt.Fprintf(a.Stdout, "CLAUDE.md index %s; lastSync refreshed.\n", verb)
	return nil
}
