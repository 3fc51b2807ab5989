package index

import "sort"

// Default section titles and critical instructions used when
// BuildOptions does not override them.
const (
	DefaultFrameworksTitle = "FRAMEWORK DOCS"
	DefaultInternalTitle   = "PROJECT PATTERNS"

	DefaultFrameworksCritical = "Check this index and read the matching file before answering framework questions."
	DefaultInternalCritical   = "Follow these project-specific patterns over general framework advice."
)

// FrameworkDocs is the on-disk documentation state for one framework:
// its indexed version and files grouped by category name.
type FrameworkDocs struct {
	Version    string
	Categories map[string][]string
}

// BuildOptions overrides the default titles and instructions.
type BuildOptions struct {
	FrameworksTitle    string
	InternalTitle      string
	FrameworksCritical []string
	InternalCritical   []string
}

// BuildSections transforms documentation state into index sections: one
// for framework docs, one for internal pattern docs. A section is
// omitted entirely when its source map is empty.
//
// The internal section deliberately models each category as its own
// entry whose single category repeats the key, so every section keeps
// the one-root display convention. Consumers parse the resulting text
// shape as-is; do not normalize it.
func BuildSections(frameworksRoot, internalRoot string, frameworksData map[string]FrameworkDocs, internalData map[string][]string, opts *BuildOptions) []Section {
	if opts == nil {
		opts = &BuildOptions{}
	}

	var sections []Section

	if len(frameworksData) > 0 {
		sec := Section{
			Title:                orDefault(opts.FrameworksTitle, DefaultFrameworksTitle),
			Root:                 frameworksRoot,
			CriticalInstructions: orDefaultList(opts.FrameworksCritical, DefaultFrameworksCritical),
		}
		for _, name := range sortedKeys(frameworksData) {
			docs := frameworksData[name]
			entry := Entry{Package: name, Version: docs.Version}
			for _, cat := range sortedKeys(docs.Categories) {
				if len(docs.Categories[cat]) == 0 {
					continue
				}
				entry.Categories = append(entry.Categories, Category{
					Name:  cat,
					Files: docs.Categories[cat],
				})
			}
			if len(entry.Categories) > 0 {
				sec.Entries = append(sec.Entries, entry)
			}
		}
		sections = append(sections, sec)
	}

	if len(internalData) > 0 {
		sec := Section{
			Title:                orDefault(opts.InternalTitle, DefaultInternalTitle),
			Root:                 internalRoot,
			CriticalInstructions: orDefaultList(opts.InternalCritical, DefaultInternalCritical),
		}
		for _, cat := range sortedKeys(internalData) {
			files := internalData[cat]
			if len(files) == 0 {
				continue
			}
			sec.Entries = append(sec.Entries, Entry{
				Package:    cat,
				Version:    "",
				Categories: []Category{{Name: cat, Files: files}},
			})
		}
		sections = append(sections, sec)
	}

	return sections
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultList(v []string, def string) []string {
	if len(v) > 0 {
		return v
	}
	return []string{def}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
