package index

import (
	"reflect"
	"strings"
	"testing"
)

func sampleSections() []Section {
	return []Section{
		{
			Title:                "FRAMEWORK DOCS",
			Root:                 "docs/pdi/frameworks",
			CriticalInstructions: []string{"Check this index and read the matching file before answering framework questions."},
			Entries: []Entry{
				{
					Package: "react",
					Version: "18.2.0",
					Categories: []Category{
						{Name: "core", Files: []string{"hooks.md", "state.md"}},
						{Name: "routing", Files: []string{"router.md"}},
					},
				},
				{
					Package: "next",
					Version: "14.1.0",
					Categories: []Category{
						{Name: "app", Files: []string{"layouts.md"}},
					},
				},
			},
		},
		{
			Title:                "PROJECT PATTERNS",
			Root:                 "docs/pdi/internal",
			CriticalInstructions: []string{"Follow these project-specific patterns over general framework advice."},
			Entries: []Entry{
				{
					Package:    "api",
					Version:    "",
					Categories: []Category{{Name: "api", Files: []string{"conventions.md"}}},
				},
			},
		},
	}
}

func TestParseGenerateRoundTrip(t *testing.T) {
	sections := sampleSections()

	text := Generate(sections)
	got := Parse(text)
	if !reflect.DeepEqual(got, sections) {
		t.Errorf("Parse(Generate(s)) = %+v, want %+v", got, sections)
	}

	// Text-level round trip the other direction.
	if regen := Generate(got); regen != text {
		t.Errorf("Generate(Parse(text)) = %q, want %q", regen, text)
	}
}

func TestGenerateFormat(t *testing.T) {
	text := Generate(sampleSections())
	want := strings.Join([]string{
		"[FRAMEWORK DOCS]|root:docs/pdi/frameworks",
		"|CRITICAL:Check this index and read the matching file before answering framework questions.",
		"|react@18.2.0|core:{hooks.md,state.md}|routing:{router.md}",
		"|next@14.1.0|app:{layouts.md}",
		"[PROJECT PATTERNS]|root:docs/pdi/internal",
		"|CRITICAL:Follow these project-specific patterns over general framework advice.",
		"|api@|api:{conventions.md}",
	}, "\n")
	if text != want {
		t.Errorf("Generate() =\n%s\nwant:\n%s", text, want)
	}
	if strings.HasSuffix(text, "\n") {
		t.Error("Generate() should not emit a trailing newline")
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	text := strings.Join([]string{
		"prose before any header is ignored",
		"[DOCS]|root:docs/pdi/frameworks",
		"|CRITICAL:read first",
		"|react@18.2.0|core:{hooks.md}",
		"|no-version-separator|core:{a.md}",  // missing @
		"|@18.0.0|core:{a.md}",               // empty package
		"|vue@3.4.0",                         // no category clauses
		"|svelte@4.2.0|core:{}",              // only empty category
		"not an index line at all",
		"|next@14.1.0|app:{layouts.md}|junk-without-braces",
	}, "\n")

	sections := Parse(text)
	if len(sections) != 1 {
		t.Fatalf("Parse() returned %d sections, want 1", len(sections))
	}
	sec := sections[0]
	if len(sec.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(sec.Entries), sec.Entries)
	}
	if sec.Entries[0].Package != "react" || sec.Entries[1].Package != "next" {
		t.Errorf("entries = %s, %s; want react, next", sec.Entries[0].Package, sec.Entries[1].Package)
	}
	// The unparseable clause on the next line is dropped, the valid one kept.
	if len(sec.Entries[1].Categories) != 1 || sec.Entries[1].Categories[0].Name != "app" {
		t.Errorf("next categories = %+v, want just app", sec.Entries[1].Categories)
	}
}

func TestParseEmptySectionAndBlankLines(t *testing.T) {
	text := "\n\n[EMPTY]|root:docs/x\n\n\n"
	sections := Parse(text)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Title != "EMPTY" || sections[0].Root != "docs/x" {
		t.Errorf("section = %+v", sections[0])
	}
	if len(sections[0].Entries) != 0 || len(sections[0].CriticalInstructions) != 0 {
		t.Errorf("empty section should have no entries or instructions: %+v", sections[0])
	}
}

func TestParseVersionWithPrereleaseAndEmptyRoot(t *testing.T) {
	text := "[T]|root:\n|pkg@5.0.0-beta.1|core:{a.md}"
	sections := Parse(text)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Root != "" {
		t.Errorf("root = %q, want empty", sections[0].Root)
	}
	if v := sections[0].Entries[0].Version; v != "5.0.0-beta.1" {
		t.Errorf("version = %q, want 5.0.0-beta.1", v)
	}
}

func TestParseVersionWithAliasRange(t *testing.T) {
	// npm alias ranges put "@" inside the version; only the first "@"
	// separates package from version.
	sections := []Section{{
		Title: "T", Root: "docs",
		Entries: []Entry{{
			Package:    "react",
			Version:    "npm:react@18.2.0",
			Categories: []Category{{Name: "core", Files: []string{"a.md"}}},
		}},
	}}

	got := Parse(Generate(sections))
	if !reflect.DeepEqual(got, sections) {
		t.Fatalf("alias version lost in round trip:\ngot:  %+v\nwant: %+v", got, sections)
	}
	if v := got[0].Entries[0].Version; v != "npm:react@18.2.0" {
		t.Errorf("version = %q, want npm:react@18.2.0", v)
	}
}

func TestGenerateBlock(t *testing.T) {
	sections := []Section{{
		Title: "T", Root: "docs",
		Entries: []Entry{{Package: "react", Version: "18.2.0",
			Categories: []Category{{Name: "core", Files: []string{"a.md"}}}}},
	}}

	t.Run("without mappings", func(t *testing.T) {
		block := GenerateBlock(sections, nil)
		if !strings.HasPrefix(block, BeginMarker+"\n") {
			t.Errorf("block does not start with begin marker: %q", block)
		}
		if !strings.HasSuffix(block, "\n"+EndMarker) {
			t.Errorf("block does not end with end marker: %q", block)
		}
	})

	t.Run("with mappings sorted by name", func(t *testing.T) {
		block := GenerateBlock(sections, map[string]string{
			"vue":   "/vuejs/docs",
			"react": "/facebook/react",
		})
		want := EndMarker + "\n<!-- Library IDs for MCP fallback: react=/facebook/react, vue=/vuejs/docs -->"
		if !strings.HasSuffix(block, want) {
			t.Errorf("block trailer wrong:\n%s\nwant suffix:\n%s", block, want)
		}
	})
}

func TestSizeKB(t *testing.T) {
	sections := sampleSections()
	block := GenerateBlock(sections, nil)
	got := SizeKB(sections, nil)
	want := float64(len(block)) / 1024
	if got != want {
		t.Errorf("SizeKB() = %f, want %f", got, want)
	}
}
