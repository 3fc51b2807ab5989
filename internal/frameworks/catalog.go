// Package frameworks holds the built-in catalog of frameworks pdi can
// document: how each one is detected in a package.json, its Context7
// library ID, and which documentation topics get fetched per category.
package frameworks

import "sort"

// RuleKind distinguishes how a detection rule matches a dependency name.
type RuleKind string

const (
	// RuleExact matches a dependency name exactly. Only exact rules are
	// invertible, so only they participate in freshness reverse lookups.
	RuleExact RuleKind = "exact"
	// RulePrefix matches any dependency name starting with the value
	// (scoped package families like "@angular/").
	RulePrefix RuleKind = "prefix"
)

// Rule is one dependency-detection rule.
type Rule struct {
	Kind  RuleKind
	Value string
}

// Topic is one documentation query within a category.
type Topic struct {
	// Slug becomes the output filename (slug + ".md").
	Slug string
	// Query is the topic string sent to Context7.
	Query string
}

// Category groups topics under a directory name.
type Category struct {
	Name   string
	Topics []Topic
}

// Framework describes one entry in the built-in catalog.
type Framework struct {
	// Key is the stable identifier used in config and on disk.
	Key string
	// DisplayName is shown in status output.
	DisplayName string
	// Package is the npm package whose version tracks the framework.
	// Empty for frameworks that are not published on npm.
	Package string
	// LibraryID is the Context7-compatible ID ("/org/project").
	LibraryID string
	// Detect lists the manifest rules that identify the framework.
	Detect []Rule
	// Categories are the documentation topics fetched by default.
	Categories []Category
}

// Catalog maps framework key to its definition.
var Catalog = map[string]Framework{
	"react": {
		Key:         "react",
		DisplayName: "React",
		Package:     "react",
		LibraryID:   "/facebook/react",
		Detect:      []Rule{{RuleExact, "react"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "components", Query: "components and props"},
				{Slug: "hooks", Query: "hooks"},
				{Slug: "state", Query: "state management"},
			}},
			{Name: "advanced", Topics: []Topic{
				{Slug: "performance", Query: "performance optimization"},
				{Slug: "suspense", Query: "suspense and concurrent features"},
			}},
		},
	},
	"next": {
		Key:         "next",
		DisplayName: "Next.js",
		Package:     "next",
		LibraryID:   "/vercel/next.js",
		Detect:      []Rule{{RuleExact, "next"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "routing", Query: "app router and routing"},
				{Slug: "data-fetching", Query: "data fetching"},
				{Slug: "rendering", Query: "server and client rendering"},
			}},
			{Name: "deployment", Topics: []Topic{
				{Slug: "config", Query: "configuration"},
				{Slug: "middleware", Query: "middleware"},
			}},
		},
	},
	"vue": {
		Key:         "vue",
		DisplayName: "Vue",
		Package:     "vue",
		LibraryID:   "/vuejs/docs",
		Detect:      []Rule{{RuleExact, "vue"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "components", Query: "components"},
				{Slug: "reactivity", Query: "reactivity"},
				{Slug: "composition-api", Query: "composition api"},
			}},
		},
	},
	"nuxt": {
		Key:         "nuxt",
		DisplayName: "Nuxt",
		Package:     "nuxt",
		LibraryID:   "/nuxt/nuxt",
		Detect:      []Rule{{RuleExact, "nuxt"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "routing", Query: "pages and routing"},
				{Slug: "data-fetching", Query: "data fetching"},
			}},
		},
	},
	"svelte": {
		Key:         "svelte",
		DisplayName: "Svelte",
		Package:     "svelte",
		LibraryID:   "/sveltejs/svelte",
		Detect:      []Rule{{RuleExact, "svelte"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "components", Query: "components"},
				{Slug: "runes", Query: "runes and reactivity"},
			}},
		},
	},
	"angular": {
		Key:         "angular",
		DisplayName: "Angular",
		Package:     "@angular/core",
		LibraryID:   "/angular/angular",
		Detect: []Rule{
			{RuleExact, "@angular/core"},
			{RulePrefix, "@angular/"},
		},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "components", Query: "components"},
				{Slug: "signals", Query: "signals"},
				{Slug: "di", Query: "dependency injection"},
			}},
		},
	},
	"hono": {
		Key:         "hono",
		DisplayName: "Hono",
		Package:     "hono",
		LibraryID:   "/honojs/hono",
		Detect:      []Rule{{RuleExact, "hono"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "routing", Query: "routing"},
				{Slug: "middleware", Query: "middleware"},
			}},
		},
	},
	"express": {
		Key:         "express",
		DisplayName: "Express",
		Package:     "express",
		LibraryID:   "/expressjs/express",
		Detect:      []Rule{{RuleExact, "express"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "routing", Query: "routing"},
				{Slug: "middleware", Query: "middleware"},
			}},
		},
	},
	"tailwindcss": {
		Key:         "tailwindcss",
		DisplayName: "Tailwind CSS",
		Package:     "tailwindcss",
		LibraryID:   "/tailwindlabs/tailwindcss.com",
		Detect:      []Rule{{RuleExact, "tailwindcss"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "utilities", Query: "utility classes"},
				{Slug: "config", Query: "configuration and theming"},
			}},
		},
	},
	"typescript": {
		Key:         "typescript",
		DisplayName: "TypeScript",
		Package:     "typescript",
		LibraryID:   "/microsoft/typescript",
		Detect:      []Rule{{RuleExact, "typescript"}},
		Categories: []Category{
			{Name: "core", Topics: []Topic{
				{Slug: "types", Query: "type system"},
				{Slug: "config", Query: "tsconfig options"},
			}},
		},
	},
}

// Lookup returns the catalog entry for a key.
func Lookup(key string) (Framework, bool) {
	fw, ok := Catalog[key]
	return fw, ok
}

// Keys returns all catalog keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(Catalog))
	for k := range Catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
