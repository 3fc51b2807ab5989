package cli

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/fetcher"
	"github.com/pdi-dev/pdi/internal/index"
)

// Doctor diagnoses the project: config validity, index markers, drift
// between the on-disk index and a fresh regeneration, size against the
// configured limit, referenced files, and transport availability.
func (a *App) Doctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	failures := 0
	check := func(ok bool, label, detail string) {
		mark := "ok"
		if !ok {
			mark = "FAIL"
			failures++
		}
		fmt.Fprintf(a.Stdout, "[%s] %s", mark, label)
		if detail != "" {
			fmt.Fprintf(a.Stdout, " — %s", detail)
		}
		fmt.Fprintln(a.Stdout)
	}

	cfg, err := a.Store.Load(a.Root)
	if err != nil {
		check(false, "config", err.Error())
		return fmt.Errorf("%d problem(s) found", failures)
	}
	check(true, "config", "valid")

	sections, mappings, err := a.buildSections(cfg)
	if err != nil {
		check(false, "docs tree", err.Error())
		return fmt.Errorf("%d problem(s) found", failures)
	}

	a.checkMarkers(sections, mappings, check)

	sizeKB := index.SizeKB(sections, mappings)
	limit := cfg.Limits.MaxIndexKB
	check(limit == 0 || sizeKB <= float64(limit), "index size",
		fmt.Sprintf("%.1f KB (limit %d KB)", sizeKB, limit))

	a.checkReferencedFiles(cfg, sections, check)

	if cfg.APIKey != "" {
		check(true, "transport", "HTTP (API key configured)")
	} else if _, err := exec.LookPath("npx"); err == nil {
		check(true, "transport", "MCP fallback (npx available)")
	} else {
		check(false, "transport", "no API key and no npx; run `pdi auth --key <key>` or install Node.js")
	}

	if failures > 0 {
		return fmt.Errorf("%d problem(s) found", failures)
	}
	fmt.Fprintln(a.Stdout, "\nEverything looks healthy.")
	return nil
}

// checkMarkers verifies CLAUDE.md carries a well-ordered marker pair
// and reports drift against a fresh regeneration as a unified diff.
func (a *App) checkMarkers(sections []index.Section, mappings map[string]string, check func(bool, string, string)) {
	raw, err := os.ReadFile(a.claudePath())
	if os.IsNotExist(err) {
		check(false, "CLAUDE.md", "missing; run `pdi generate`")
		return
	}
	if err != nil {
		check(false, "CLAUDE.md", err.Error())
		return
	}

	content := string(raw)
	begin := strings.Index(content, index.BeginMarker)
	end := strings.Index(content, index.EndMarker)
	switch {
	case begin < 0 || end < 0:
		check(false, "index markers", "not found; run `pdi generate`")
		return
	case end < begin:
		check(false, "index markers", "out of order; run `pdi generate`")
		return
	}
	check(true, "index markers", "present")

	current := index.ExtractBlock(content)
	fresh := index.GenerateBlock(sections, mappings)
	if current == fresh {
		check(true, "index drift", "in sync with docs on disk")
		return
	}

	check(false, "index drift", "CLAUDE.md is out of date; run `pdi sync`")
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(fresh),
		FromFile: "CLAUDE.md (current)",
		ToFile:   "regenerated",
		Context:  2,
	}
	if text, err := difflib.GetUnifiedDiffString(diff); err == nil {
		fmt.Fprint(a.Stdout, text)
	}
}

// checkReferencedFiles verifies every file the index lists exists on
// disk. Internal-section entries are categories, so their path omits
// the package level; the "general" category holds loose files that live
// directly under the section root.
func (a *App) checkReferencedFiles(cfg *config.ProjectConfig, sections []index.Section, check func(bool, string, string)) {
	var missing []string
	for _, sec := range sections {
		internal := sec.Root == cfg.InternalRoot()
		for _, entry := range sec.Entries {
			for _, cat := range entry.Categories {
				for _, file := range cat.Files {
					candidates := []string{filepath.Join(a.Root, sec.Root, entry.Package, cat.Name, file)}
					if internal {
						candidates = []string{filepath.Join(a.Root, sec.Root, cat.Name, file)}
						if cat.Name == fetcher.GeneralCategory {
							candidates = append(candidates, filepath.Join(a.Root, sec.Root, file))
						}
					}
					if !anyExists(candidates) {
						missing = append(missing, candidates[len(candidates)-1])
					}
				}
			}
		}
	}
	if len(missing) > 0 {
		check(false, "referenced files", fmt.Sprintf("%d missing (first: %s)", len(missing), missing[0]))
		return
	}
	check(true, "referenced files", "all present")
}

func anyExists(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}
