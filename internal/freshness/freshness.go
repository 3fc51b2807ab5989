// Package freshness classifies each documented framework against the
// project manifest and the latest published npm versions, and computes
// the aggregate exit code `pdi status --check` reports.
//
// The comparator performs no I/O itself: the registry lookup is injected
// as a callback, so the whole check is a pure function over loaded data.
package freshness

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/pdi-dev/pdi/internal/config"
	"github.com/pdi-dev/pdi/internal/frameworks"
)

// Status is the per-framework classification.
type Status string

const (
	StatusUpToDate Status = "up-to-date"
	StatusStale    Status = "stale"
	StatusMissing  Status = "missing"
	StatusOrphaned Status = "orphaned"
	StatusUnknown  Status = "unknown"
)

// Exit codes for `pdi status --check`. Fixed contract: downstream
// automation branches on the exact values.
const (
	ExitOK           = 0
	ExitStale        = 1
	ExitMissing      = 2
	ExitOrphaned     = 3
	ExitMixed        = 4
	ExitNetworkError = 5
)

// DefaultStaleDays is the age threshold for frameworks that have no npm
// mapping and fall back to the timestamp heuristic.
const DefaultStaleDays = 30

// Result is one framework's evaluation outcome.
type Result struct {
	Framework      string `json:"framework"`
	DisplayName    string `json:"displayName"`
	IndexedVersion string `json:"indexedVersion"`
	LatestVersion  string `json:"latestVersion,omitempty"`
	Status         Status `json:"status"`
	DiffType       string `json:"diffType,omitempty"`
}

// Summary counts results per status.
type Summary struct {
	UpToDate int `json:"upToDate"`
	Stale    int `json:"stale"`
	Missing  int `json:"missing"`
	Orphaned int `json:"orphaned"`
	Unknown  int `json:"unknown"`
}

// Output is the aggregate of one freshness check.
type Output struct {
	Results  []Result `json:"results"`
	ExitCode int      `json:"exitCode"`
	Summary  Summary  `json:"summary"`
}

// LatestFunc resolves the latest published version for each package
// name in one batched call. A package absent from the returned map means
// its latest version could not be determined; a returned error means the
// whole lookup failed and the check aborts with ExitNetworkError.
type LatestFunc func(ctx context.Context, packages []string) (map[string]string, error)

// Options tunes CheckFreshness.
type Options struct {
	// FetchLatest is the injected registry lookup. Required when any
	// configured framework has an exact npm mapping.
	FetchLatest LatestFunc
	// StaleDays overrides the timestamp-heuristic threshold (default 30).
	StaleDays int
	// Now overrides the clock for tests.
	Now time.Time
}

// VersionCheck is the outcome of comparing two version strings.
type VersionCheck struct {
	IsStale  bool
	DiffType string
}

// looseVersionRe tolerates prefixes and partial versions the manifest
// ecosystem produces: "v18", "18.x", "^4.7.0", "18".
var looseVersionRe = regexp.MustCompile(`(\d+)(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?(-[0-9A-Za-z.\-]+)?`)

// coerce normalizes a version string into strict major.minor.patch,
// replacing wildcard components with zero. Returns nil when nothing
// version-shaped is present.
func coerce(s string) *semver.Version {
	m := looseVersionRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	minor, patch := m[2], m[3]
	if minor == "" || minor == "x" || minor == "X" || minor == "*" {
		minor = "0"
	}
	if patch == "" || patch == "x" || patch == "X" || patch == "*" {
		patch = "0"
	}
	v, err := semver.NewVersion(fmt.Sprintf("%s.%s.%s%s", m[1], minor, patch, m[4]))
	if err != nil {
		return nil
	}
	return v
}

// CheckVersionFreshness compares an indexed version against the latest
// published one. Ambiguous versions are "cannot judge", never stale:
// yes, that can mask drift behind oddly-versioned packages ("latest"),
// but flipping it would change the exit-code contract.
//
// Patch-level drift is tolerated by design — documentation rarely
// changes meaningfully across patch releases.
func CheckVersionFreshness(indexed, latest string) VersionCheck {
	a := coerce(indexed)
	b := coerce(latest)
	if a == nil || b == nil {
		return VersionCheck{IsStale: false, DiffType: "uncoercible"}
	}

	diff := diffKind(a, b)
	switch diff {
	case "major", "minor", "premajor", "preminor":
		return VersionCheck{IsStale: true, DiffType: diff}
	default:
		return VersionCheck{IsStale: false, DiffType: diff}
	}
}

// diffKind returns the semantic difference between two versions:
// "" (identical), patch, minor, major, prerelease, or a pre-prefixed
// variant when a prerelease tag is involved.
func diffKind(a, b *semver.Version) string {
	if a.Equal(b) {
		return ""
	}

	var kind string
	switch {
	case a.Major() != b.Major():
		kind = "major"
	case a.Minor() != b.Minor():
		kind = "minor"
	case a.Patch() != b.Patch():
		kind = "patch"
	default:
		return "prerelease"
	}
	if a.Prerelease() != "" || b.Prerelease() != "" {
		kind = "pre" + kind
	}
	return kind
}

// CheckFreshness evaluates every configured framework against the
// manifest and the registry, synthesizes "missing" results for manifest
// dependencies not yet documented, and computes the exit code.
func CheckFreshness(ctx context.Context, cfg *config.ProjectConfig, deps map[string]string, opts Options) Output {
	staleDays := opts.StaleDays
	if staleDays <= 0 {
		staleDays = DefaultStaleDays
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// Reverse maps from exact detection rules only. Prefix rules cannot
	// be inverted to a single registry package, so they never join the
	// version lookup (they still count for orphan detection).
	fwToPkg := map[string]string{}
	pkgToFw := map[string]frameworks.Framework{}
	for key, fw := range frameworks.Catalog {
		if pkg := frameworks.ExactPackage(fw); pkg != "" {
			fwToPkg[key] = pkg
			pkgToFw[pkg] = fw
		}
	}

	// One batched registry call for every configured framework that has
	// an exact mapping.
	var needed []string
	for key := range cfg.Frameworks {
		if pkg, ok := fwToPkg[key]; ok {
			needed = append(needed, pkg)
		}
	}
	sort.Strings(needed)

	latest := map[string]string{}
	if len(needed) > 0 && opts.FetchLatest != nil {
		var err error
		latest, err = opts.FetchLatest(ctx, needed)
		if err != nil {
			// Systemic failure: partial results would be misleading,
			// since per-package misses are already representable.
			return Output{Results: []Result{}, ExitCode: ExitNetworkError}
		}
	}

	var results []Result
	for _, key := range sortedConfigKeys(cfg.Frameworks) {
		fc := cfg.Frameworks[key]
		results = append(results, evaluate(key, fc, deps, latest, fwToPkg, staleDays, now))
	}

	// Manifest dependencies mapped to known frameworks that nothing in
	// the config covers yet.
	seen := map[string]bool{}
	var missingKeys []string
	for dep := range deps {
		fw, ok := pkgToFw[dep]
		if !ok || seen[fw.Key] {
			continue
		}
		if _, configured := cfg.Frameworks[fw.Key]; configured {
			continue
		}
		seen[fw.Key] = true
		missingKeys = append(missingKeys, fw.Key)
	}
	sort.Strings(missingKeys)
	for _, key := range missingKeys {
		fw := frameworks.Catalog[key]
		results = append(results, Result{
			Framework:   key,
			DisplayName: fw.DisplayName,
			Status:      StatusMissing,
		})
	}

	return finalize(results)
}

// evaluate classifies one configured framework.
func evaluate(key string, fc config.FrameworkConfig, deps, latest map[string]string, fwToPkg map[string]string, staleDays int, now time.Time) Result {
	res := Result{
		Framework:      key,
		DisplayName:    displayName(key),
		IndexedVersion: fc.Version,
	}

	fw, known := frameworks.Lookup(key)
	if !known || !frameworks.Matches(fw, deps) {
		// No dependency in the manifest claims this framework — its docs
		// are dead weight regardless of how fresh they are.
		res.Status = StatusOrphaned
		return res
	}

	if pkg, ok := fwToPkg[key]; ok {
		latestV, present := latest[pkg]
		if !present {
			// Informational only: unknown never contributes to problem
			// counts or the exit code.
			res.Status = StatusUnknown
			res.DiffType = "fetch-failed"
			return res
		}
		res.LatestVersion = latestV
		check := CheckVersionFreshness(fc.Version, latestV)
		res.DiffType = check.DiffType
		if check.IsStale {
			res.Status = StatusStale
		} else {
			res.Status = StatusUpToDate
		}
		return res
	}

	// Untracked by npm: fall back to the timestamp heuristic.
	updated, err := time.Parse(time.RFC3339, fc.LastUpdate)
	if err != nil {
		res.Status = StatusStale
		res.DiffType = "invalid-timestamp"
		return res
	}
	if now.Sub(updated) > time.Duration(staleDays)*24*time.Hour {
		res.Status = StatusStale
		res.DiffType = "timestamp"
		return res
	}
	res.Status = StatusUpToDate
	return res
}

// finalize tallies the summary and derives the exit code.
func finalize(results []Result) Output {
	out := Output{Results: results}
	if out.Results == nil {
		out.Results = []Result{}
	}

	for _, r := range results {
		switch r.Status {
		case StatusUpToDate:
			out.Summary.UpToDate++
		case StatusStale:
			out.Summary.Stale++
		case StatusMissing:
			out.Summary.Missing++
		case StatusOrphaned:
			out.Summary.Orphaned++
		case StatusUnknown:
			out.Summary.Unknown++
		}
	}

	problems := 0
	code := ExitOK
	if out.Summary.Stale > 0 {
		problems++
		code = ExitStale
	}
	if out.Summary.Missing > 0 {
		problems++
		code = ExitMissing
	}
	if out.Summary.Orphaned > 0 {
		problems++
		code = ExitOrphaned
	}
	if problems > 1 {
		code = ExitMixed
	}
	out.ExitCode = code
	return out
}

func displayName(key string) string {
	if fw, ok := frameworks.Lookup(key); ok {
		return fw.DisplayName
	}
	return key
}

func sortedConfigKeys(m map[string]config.FrameworkConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
