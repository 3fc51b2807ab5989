package cli

import (
	"path/filepath"
	"strings"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/fetcher"
	"github.com/pdi-dev/pdi/internal/index"
)

// claudePath returns the absolute path to the project's CLAUDE.md.
func (a *App) claudePath() string {
	return filepath.Join(a.Root, index.DefaultTargetFile)
}

// buildSections scans the docs tree and assembles the index sections
// plus the library-ID mappings for the MCP-fallback trailer.
func (a *App) buildSections(cfg *config.ProjectConfig) ([]index.Section, map[string]string, error) {
	scanned, err := fetcher.ScanFrameworkDocs(filepath.Join(a.Root, cfg.FrameworksRoot()))
	if err != nil {
		return nil, nil, err
	}
	internal, err := fetcher.ScanInternalDocs(filepath.Join(a.Root, cfg.InternalRoot()))
	if err != nil {
		return nil, nil, err
	}

	fwData := make(map[string]index.FrameworkDocs, len(scanned))
	for name, cats := range scanned {
		fwData[name] = index.FrameworkDocs{
			Version:    cfg.Frameworks[name].Version,
			Categories: cats,
		}
	}

	mappings := map[string]string{}
	for key, fc := range cfg.Frameworks {
		if fc.LibraryID != "" {
			mappings[key] = fc.LibraryID
		}
	}

	sections := index.BuildSections(cfg.FrameworksRoot(), cfg.InternalRoot(), fwData, internal, nil)
	return sections, mappings, nil
}

// regenerateIndex rebuilds the index block from disk state and splices
// it into CLAUDE.md.
func (a *App) regenerateIndex(cfg *config.ProjectConfig) (index.SpliceResult, error) {
	sections, mappings, err := a.buildSections(cfg)
	if err != nil {
		return index.SpliceResult{}, err
	}
	block := index.GenerateBlock(sections, mappings)
	return index.Splice(a.claudePath(), block)
}

// indexedVersion derives the version recorded for a framework from its
// manifest range: "^18.2.0" records as "18.2.0". Frameworks absent from
// the manifest record "unknown", which the freshness comparator treats
// as uncoercible rather than stale.
func indexedVersion(rng string) string {
	v := strings.TrimLeft(strings.TrimSpace(rng), "^~>=< ")
	if v == "" {
		return "unknown"
	}
	return v
}
