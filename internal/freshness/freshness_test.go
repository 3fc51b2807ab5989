package freshness

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pdi-dev/pdi/internal/config"
)

func TestCheckVersionFreshness(t *testing.T) {
	tests := []struct {
		name     string
		indexed  string
		latest   string
		wantOut  VersionCheck
	}{
		{"identical", "18.2.0", "18.2.0", VersionCheck{false, ""}},
		{"major behind is stale", "18.0.0", "19.0.0", VersionCheck{true, "major"}},
		{"minor behind is stale", "18.1.0", "18.2.0", VersionCheck{true, "minor"}},
		{"patch behind is fine", "18.2.0", "18.2.1", VersionCheck{false, "patch"}},
		{"ahead by major still differs", "19.0.0", "18.0.0", VersionCheck{true, "major"}},
		{"caret range coerces", "^4.7.0", "4.7.3", VersionCheck{false, "patch"}},
		{"v prefix coerces", "v18.2.0", "18.2.0", VersionCheck{false, ""}},
		{"wildcard minor coerces to zero", "18.x", "18.2.0", VersionCheck{true, "minor"}},
		{"bare major coerces", "18", "19.0.0", VersionCheck{true, "major"}},
		{"prerelease only differs", "5.0.0-beta.1", "5.0.0", VersionCheck{false, "prerelease"}},
		{"prerelease major gap", "5.0.0-beta.1", "6.0.0", VersionCheck{true, "premajor"}},
		{"prerelease minor gap", "5.0.0-beta.1", "5.1.0", VersionCheck{true, "preminor"}},
		{"prerelease patch gap", "5.0.0-beta.1", "5.0.1", VersionCheck{false, "prepatch"}},
		{"uncoercible indexed", "not-a-version", "18.2.0", VersionCheck{false, "uncoercible"}},
		{"uncoercible latest", "18.2.0", "latest", VersionCheck{false, "uncoercible"}},
		{"both empty", "", "", VersionCheck{false, "uncoercible"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckVersionFreshness(tt.indexed, tt.latest)
			if got != tt.wantOut {
				t.Errorf("CheckVersionFreshness(%q, %q) = %+v, want %+v",
					tt.indexed, tt.latest, got, tt.wantOut)
			}
		})
	}
}

func cfgWith(frameworks map[string]config.FrameworkConfig) *config.ProjectConfig {
	return &config.ProjectConfig{
		Schema:     config.SchemaVersion,
		DocsRoot:   config.DefaultDocsRoot,
		Frameworks: frameworks,
	}
}

func staticLatest(versions map[string]string) LatestFunc {
	return func(ctx context.Context, packages []string) (map[string]string, error) {
		return versions, nil
	}
}

func TestCheckFreshnessUpToDate(t *testing.T) {
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"react": {Version: "18.2.0"},
	})
	deps := map[string]string{"react": "^18.2.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: staticLatest(map[string]string{"react": "18.2.0"}),
	})

	if out.ExitCode != ExitOK {
		t.Errorf("exit code = %d, want %d", out.ExitCode, ExitOK)
	}
	want := []Result{{
		Framework:      "react",
		DisplayName:    "React",
		IndexedVersion: "18.2.0",
		LatestVersion:  "18.2.0",
		Status:         StatusUpToDate,
	}}
	if !reflect.DeepEqual(out.Results, want) {
		t.Errorf("results = %+v, want %+v", out.Results, want)
	}
	if out.Summary.UpToDate != 1 {
		t.Errorf("summary = %+v", out.Summary)
	}
}

func TestCheckFreshnessStale(t *testing.T) {
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"react": {Version: "18.0.0"},
	})
	deps := map[string]string{"react": "^18.0.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: staticLatest(map[string]string{"react": "19.0.0"}),
	})

	if out.ExitCode != ExitStale {
		t.Errorf("exit code = %d, want %d", out.ExitCode, ExitStale)
	}
	r := out.Results[0]
	if r.Status != StatusStale || r.DiffType != "major" || r.LatestVersion != "19.0.0" {
		t.Errorf("result = %+v", r)
	}
}

func TestCheckFreshnessOrphaned(t *testing.T) {
	// vue is configured but no manifest dependency claims it.
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"vue": {Version: "3.4.0"},
	})
	deps := map[string]string{"react": "^18.2.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: staticLatest(map[string]string{"vue": "3.4.0"}),
	})

	if out.ExitCode != ExitOrphaned {
		t.Errorf("exit code = %d, want %d", out.ExitCode, ExitOrphaned)
	}
	r := out.Results[0]
	if r.Status != StatusOrphaned || r.LatestVersion != "" {
		t.Errorf("result = %+v", r)
	}
}

func TestCheckFreshnessMissing(t *testing.T) {
	// hono is in the manifest but not configured.
	cfg := cfgWith(nil)
	deps := map[string]string{"hono": "^4.0.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{})

	if out.ExitCode != ExitMissing {
		t.Errorf("exit code = %d, want %d", out.ExitCode, ExitMissing)
	}
	want := []Result{{Framework: "hono", DisplayName: "Hono", Status: StatusMissing}}
	if !reflect.DeepEqual(out.Results, want) {
		t.Errorf("results = %+v, want %+v", out.Results, want)
	}
}

func TestCheckFreshnessMixed(t *testing.T) {
	// react stale + hono missing = two problem kinds = mixed.
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"react": {Version: "18.0.0"},
	})
	deps := map[string]string{"react": "^18.0.0", "hono": "^4.0.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: staticLatest(map[string]string{"react": "19.0.0"}),
	})

	if out.ExitCode != ExitMixed {
		t.Errorf("exit code = %d, want %d", out.ExitCode, ExitMixed)
	}
	if out.Summary.Stale != 1 || out.Summary.Missing != 1 {
		t.Errorf("summary = %+v", out.Summary)
	}
}

func TestCheckFreshnessRegistryFailure(t *testing.T) {
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"react": {Version: "18.2.0"},
	})
	deps := map[string]string{"react": "^18.2.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: func(ctx context.Context, packages []string) (map[string]string, error) {
			return nil, errors.New("registry unreachable")
		},
	})

	if out.ExitCode != ExitNetworkError {
		t.Errorf("exit code = %d, want %d", out.ExitCode, ExitNetworkError)
	}
	if out.Results == nil || len(out.Results) != 0 {
		t.Errorf("results = %v, want empty non-nil slice", out.Results)
	}
	if (out.Summary != Summary{}) {
		t.Errorf("summary = %+v, want zero", out.Summary)
	}
}

func TestCheckFreshnessUnknownDoesNotAffectExit(t *testing.T) {
	// Lookup succeeds overall but has no answer for react.
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"react": {Version: "18.2.0"},
	})
	deps := map[string]string{"react": "^18.2.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: staticLatest(map[string]string{}),
	})

	if out.ExitCode != ExitOK {
		t.Errorf("exit code = %d, want %d (unknown is informational)", out.ExitCode, ExitOK)
	}
	r := out.Results[0]
	if r.Status != StatusUnknown || r.DiffType != "fetch-failed" {
		t.Errorf("result = %+v", r)
	}
	if out.Summary.Unknown != 1 {
		t.Errorf("summary = %+v", out.Summary)
	}
}

func TestCheckFreshnessResultOrdering(t *testing.T) {
	cfg := cfgWith(map[string]config.FrameworkConfig{
		"vue":   {Version: "3.4.0"},
		"react": {Version: "18.2.0"},
	})
	deps := map[string]string{"react": "^18.2.0", "vue": "^3.4.0", "hono": "^4.0.0"}

	out := CheckFreshness(context.Background(), cfg, deps, Options{
		FetchLatest: staticLatest(map[string]string{"react": "18.2.0", "vue": "3.4.0"}),
	})

	var keys []string
	for _, r := range out.Results {
		keys = append(keys, r.Framework)
	}
	// Configured frameworks sorted first, then synthesized missing ones.
	want := []string{"react", "vue", "hono"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("result order = %v, want %v", keys, want)
	}
}

func TestEvaluateTimestampHeuristic(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	deps := map[string]string{"react": "^18.2.0"}
	// Empty fwToPkg forces the timestamp path for a manifest-matched
	// framework.
	noPkg := map[string]string{}

	tests := []struct {
		name       string
		lastUpdate string
		wantStatus Status
		wantDiff   string
	}{
		{"fresh timestamp", now.Add(-24 * time.Hour).Format(time.RFC3339), StatusUpToDate, ""},
		{"old timestamp", now.Add(-40 * 24 * time.Hour).Format(time.RFC3339), StatusStale, "timestamp"},
		{"invalid timestamp", "not-a-time", StatusStale, "invalid-timestamp"},
		{"empty timestamp", "", StatusStale, "invalid-timestamp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := config.FrameworkConfig{Version: "18.2.0", LastUpdate: tt.lastUpdate}
			res := evaluate("react", fc, deps, nil, noPkg, DefaultStaleDays, now)
			if res.Status != tt.wantStatus || res.DiffType != tt.wantDiff {
				t.Errorf("evaluate() = %+v, want status %s diff %q", res, tt.wantStatus, tt.wantDiff)
			}
		})
	}
}

func TestEvaluateCustomStaleDays(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	deps := map[string]string{"react": "^18.2.0"}
	fc := config.FrameworkConfig{
		Version:    "18.2.0",
		LastUpdate: now.Add(-10 * 24 * time.Hour).Format(time.RFC3339),
	}

	if res := evaluate("react", fc, deps, nil, map[string]string{}, 30, now); res.Status != StatusUpToDate {
		t.Errorf("10 days with 30-day threshold = %s, want up-to-date", res.Status)
	}
	if res := evaluate("react", fc, deps, nil, map[string]string{}, 7, now); res.Status != StatusStale {
		t.Errorf("10 days with 7-day threshold = %s, want stale", res.Status)
	}
}
