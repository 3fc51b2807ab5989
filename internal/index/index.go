// Package index implements the compressed docs index: a line-oriented
// text format listing documented frameworks and their files, embedded in
// CLAUDE.md between sentinel markers so AI assistants can locate the
// right documentation file without scanning the docs tree.
//
// The grammar, one construct per non-blank line:
//
//	[Title]|root:docs/pdi/frameworks          section header
//	|CRITICAL:read the file before answering  critical instruction
//	|react@18.2.0|core:{hooks.md,state.md}    entry with categories
//
// Parse and Generate round-trip exactly for well-formed input. Malformed
// lines are skipped, never errored: a half-corrupted index still yields
// every entry that survives.
package index

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// BeginMarker and EndMarker delimit the index block inside CLAUDE.md.
	// Exact literals are a compatibility contract with consumers that
	// locate the block; never change them.
	BeginMarker = "<!-- PDI-INDEX:START -->"
	EndMarker   = "<!-- PDI-INDEX:END -->"

	// mappingPrefix opens the optional trailer comment carrying
	// name=libraryID pairs for MCP fallback lookups.
	mappingPrefix = "<!-- Library IDs for MCP fallback: "
	mappingSuffix = " -->"
)

// Category is one named group of documentation files.
type Category struct {
	Name  string
	Files []string
}

// Entry is one documented package or framework.
type Entry struct {
	Package    string
	Version    string
	Categories []Category
}

// Section is one named block of the index.
type Section struct {
	Title                string
	Root                 string
	CriticalInstructions []string
	Entries              []Entry
}

var (
	headerRe   = regexp.MustCompile(`^\[(.+)\]\|root:(.*)$`)
	criticalRe = regexp.MustCompile(`^\|CRITICAL:(.*)$`)
	categoryRe = regexp.MustCompile(`^([^:{}|]+):\{([^{}]*)\}$`)
)

// Parse decodes index text into sections. A single left-to-right pass:
// lines before any section header are ignored, as is anything that does
// not match the grammar.
func Parse(text string) []Section {
	var sections []Section
	var current *Section

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Title: m[1], Root: m[2]}
			continue
		}
		if current == nil {
			continue
		}

		if m := criticalRe.FindStringSubmatch(line); m != nil {
			current.CriticalInstructions = append(current.CriticalInstructions, m[1])
			continue
		}

		if entry, ok := parseEntry(line); ok {
			current.Entries = append(current.Entries, entry)
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// parseEntry decodes one |pkg@version|cat:{files}... line. Returns false
// for anything malformed, including entries with zero parseable
// categories. The package name cannot contain "@", so the first "@"
// splits package from version unambiguously; the version itself may
// carry further "@"s (npm alias ranges like "npm:react@18.2.0").
func parseEntry(line string) (Entry, bool) {
	if !strings.HasPrefix(line, "|") {
		return Entry{}, false
	}
	fields := strings.Split(line[1:], "|")
	if len(fields) < 2 {
		return Entry{}, false
	}

	at := strings.Index(fields[0], "@")
	if at <= 0 {
		return Entry{}, false
	}
	pkg, version := fields[0][:at], fields[0][at+1:]

	entry := Entry{Package: pkg, Version: version}
	for _, clause := range fields[1:] {
		m := categoryRe.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		var files []string
		for _, f := range strings.Split(m[2], ",") {
			if f != "" {
				files = append(files, f)
			}
		}
		entry.Categories = append(entry.Categories, Category{Name: m[1], Files: files})
	}
	if len(entry.Categories) == 0 {
		return Entry{}, false
	}
	return entry, true
}

// Generate encodes sections back into index text, the exact inverse of
// Parse for well-formed input. Lines joined with \n, no trailing newline.
func Generate(sections []Section) string {
	var lines []string
	for _, sec := range sections {
		lines = append(lines, "["+sec.Title+"]|root:"+sec.Root)
		for _, ci := range sec.CriticalInstructions {
			lines = append(lines, "|CRITICAL:"+ci)
		}
		for _, entry := range sec.Entries {
			var b strings.Builder
			b.WriteString("|" + entry.Package + "@" + entry.Version)
			for _, cat := range entry.Categories {
				b.WriteString("|" + cat.Name + ":{" + strings.Join(cat.Files, ",") + "}")
			}
			lines = append(lines, b.String())
		}
	}
	return strings.Join(lines, "\n")
}

// GenerateBlock wraps the generated index between the sentinel markers.
// A non-empty libraryMappings map appends the MCP-fallback trailer
// comment; that comment is treated as part of the block when splicing.
func GenerateBlock(sections []Section, libraryMappings map[string]string) string {
	block := BeginMarker + "\n" + Generate(sections) + "\n" + EndMarker
	if len(libraryMappings) > 0 {
		block += "\n" + mappingComment(libraryMappings)
	}
	return block
}

// mappingComment renders name=id pairs sorted by name, comma-separated.
func mappingComment(mappings map[string]string) string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+mappings[name])
	}
	return mappingPrefix + strings.Join(pairs, ", ") + mappingSuffix
}

// SizeKB returns the byte length of the full block in kilobytes, for
// display and limit reporting only.
func SizeKB(sections []Section, libraryMappings map[string]string) float64 {
	return float64(len(GenerateBlock(sections, libraryMappings))) / 1024
}
