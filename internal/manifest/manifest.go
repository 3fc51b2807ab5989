// Package manifest reads the project's package.json dependency
// declarations.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the manifest filename pdi looks for in the project root.
const FileName = "package.json"

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Load reads package.json from the project root and returns the merged
// dependency map (dependencies plus devDependencies, name → range).
// A missing manifest yields an empty map, not an error — projects without
// one simply have nothing to detect against.
func Load(projectRoot string) (map[string]string, error) {
	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	deps := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, rng := range pkg.Dependencies {
		deps[name] = rng
	}
	for name, rng := range pkg.DevDependencies {
		if _, ok := deps[name]; !ok {
			deps[name] = rng
		}
	}
	return deps, nil
}
