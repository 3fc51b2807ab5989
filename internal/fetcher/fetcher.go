// Package fetcher downloads documentation for a framework topic by
// topic and lays the files out under the docs root. It owns the on-disk
// layout: <frameworksRoot>/<framework>/<category>/<topic>.md.
package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdi-dev/pdi/internal/context7"
	"github.com/pdi-dev/pdi/internal/frameworks"
	"github.com/pdi-dev/pdi/internal/logging"
)

// DocExt is the file extension every written documentation file carries.
const DocExt = ".md"

// defaultConcurrency caps simultaneous outbound documentation fetches.
const defaultConcurrency = 5

// QueryResult is the outcome of one topic fetch, reported in original
// query order regardless of completion order.
type QueryResult struct {
	Category string
	Slug     string
	Topic    string
	Path     string
	Err      error
}

// Fetcher runs the per-framework fan-out.
type Fetcher struct {
	Client      context7.Client
	Concurrency int
}

// New returns a fetcher with the default concurrency cap.
func New(client context7.Client) *Fetcher {
	return &Fetcher{Client: client, Concurrency: defaultConcurrency}
}

// FetchFramework fetches every topic of fw and writes one file per
// topic. Each task writes to its own distinct path, so no write
// contention exists. Per-topic failures are recorded in the results,
// not returned: callers decide whether partial docs are acceptable.
func (f *Fetcher) FetchFramework(ctx context.Context, frameworksRoot string, fw frameworks.Framework, libraryID string) ([]QueryResult, error) {
	type task struct {
		category string
		slug     string
		topic    string
	}
	var tasks []task
	for _, cat := range fw.Categories {
		for _, t := range cat.Topics {
			tasks = append(tasks, task{category: cat.Name, slug: t.Slug, topic: t.Query})
		}
	}

	results := make([]QueryResult, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency())
	for i, t := range tasks {
		i, t := i, t
		results[i] = QueryResult{Category: t.category, Slug: t.slug, Topic: t.topic}
		g.Go(func() error {
			path := filepath.Join(frameworksRoot, fw.Key, t.category, t.slug+DocExt)
			content, err := f.Client.QueryDocs(gctx, libraryID, t.topic)
			if err != nil {
				logging.Debug("topic fetch failed",
					zap.String("framework", fw.Key), zap.String("topic", t.topic), zap.Error(err))
				results[i].Err = err
				return nil
			}
			if err := writeDoc(path, content); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Path = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (f *Fetcher) concurrency() int {
	if f.Concurrency > 0 {
		return f.Concurrency
	}
	return defaultConcurrency
}

func writeDoc(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating docs directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Summarize reduces fetch results to the fields the framework config
// records: written-file count, the categories that got at least one
// file, and the first error encountered (in query order).
func Summarize(results []QueryResult) (files int, categories []string, firstErr error) {
	seen := map[string]bool{}
	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		files++
		if !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)
	return files, categories, firstErr
}
