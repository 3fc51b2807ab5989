package fetcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanFrameworkDocs reads the framework docs tree back into
// framework → category → files maps, the shape the index builder
// consumes. Missing root yields an empty map.
func ScanFrameworkDocs(frameworksRoot string) (map[string]map[string][]string, error) {
	out := map[string]map[string][]string{}

	fwEntries, err := os.ReadDir(frameworksRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}

	for _, fwEntry := range fwEntries {
		if !fwEntry.IsDir() {
			continue
		}
		cats, err := scanCategories(filepath.Join(frameworksRoot, fwEntry.Name()))
		if err != nil {
			return nil, err
		}
		if len(cats) > 0 {
			out[fwEntry.Name()] = cats
		}
	}
	return out, nil
}

// GeneralCategory is the category name given to loose doc files sitting
// directly under the internal docs root. By convention its files resolve
// against the root itself, not a "general/" subdirectory.
const GeneralCategory = "general"

// ScanInternalDocs reads the internal patterns tree into
// category → files. Loose files directly under the root go into
// GeneralCategory.
func ScanInternalDocs(internalRoot string) (map[string][]string, error) {
	cats, err := scanCategories(internalRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, err
	}
	return cats, nil
}

// scanCategories reads one level of category directories, listing the
// doc files inside each. Loose doc files at the top level are grouped
// under "general".
func scanCategories(root string) (map[string][]string, error) {
	out := map[string][]string{}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			files, err := listDocs(filepath.Join(root, entry.Name()))
			if err != nil {
				return nil, err
			}
			if len(files) > 0 {
				out[entry.Name()] = files
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), DocExt) {
			out[GeneralCategory] = append(out[GeneralCategory], entry.Name())
		}
	}
	for _, files := range out {
		sort.Strings(files)
	}
	return out, nil
}

func listDocs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), DocExt) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
