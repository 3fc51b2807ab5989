// Package config persists the project-local pdi configuration:
// which frameworks are documented, at which version, where the docs live,
// and the limits the index generator respects.
//
// The configuration is a single JSON file at .pdi/config.json. Loading
// validates the decoded value against the schema and surfaces violations
// as structured field-path issues rather than a generic parse failure.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pdi-dev/pdi/internal/errs"
)

const (
	// PDIDir is the per-project directory holding config and cache.
	PDIDir = ".pdi"
	// ConfigFile is the configuration filename inside PDIDir.
	ConfigFile = "config.json"
	// CacheFile is the sqlite registry cache inside PDIDir.
	CacheFile = "cache.db"

	// SchemaVersion is written to new configs and checked on load.
	SchemaVersion = "1"

	// DefaultDocsRoot is where fetched documentation is written,
	// relative to the project root.
	DefaultDocsRoot = "docs/pdi"

	// DefaultMaxIndexKB caps the generated index block size reported by
	// doctor. It is a warning threshold, not enforced at write time.
	DefaultMaxIndexKB = 8
)

// Source identifies which transport produced a framework's docs.
type Source string

const (
	SourceContext7HTTP Source = "context7-http"
	SourceContext7MCP  Source = "context7-mcp"
)

// FrameworkConfig is the per-framework record: what was fetched, when,
// and from where.
type FrameworkConfig struct {
	Version    string   `json:"version" validate:"required"`
	Source     Source   `json:"source" validate:"required,oneof=context7-http context7-mcp"`
	LibraryID  string   `json:"libraryId,omitempty"`
	LastUpdate string   `json:"lastUpdate" validate:"required"`
	Files      int      `json:"files" validate:"gte=0"`
	Categories []string `json:"categories,omitempty"`
}

// Limits holds size thresholds checked by doctor.
type Limits struct {
	MaxIndexKB int `json:"maxIndexKb" validate:"gte=0"`
}

// ProjectConfig is the root of .pdi/config.json.
type ProjectConfig struct {
	Schema     string                     `json:"schema" validate:"required"`
	DocsRoot   string                     `json:"docsRoot" validate:"required"`
	Frameworks map[string]FrameworkConfig `json:"frameworks" validate:"dive"`
	Limits     Limits                     `json:"limits"`
	APIKey     string                     `json:"apiKey,omitempty"`
	LastSync   string                     `json:"lastSync,omitempty"`
	CreatedAt  string                     `json:"createdAt"`
	UpdatedAt  string                     `json:"updatedAt"`
}

// NewProjectConfig returns a config with defaults applied.
func NewProjectConfig() *ProjectConfig {
	now := time.Now().UTC().Format(time.RFC3339)
	return &ProjectConfig{
		Schema:     SchemaVersion,
		DocsRoot:   DefaultDocsRoot,
		Frameworks: map[string]FrameworkConfig{},
		Limits:     Limits{MaxIndexKB: DefaultMaxIndexKB},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FrameworksRoot returns the docs subdirectory for framework docs,
// relative to the project root.
func (c *ProjectConfig) FrameworksRoot() string {
	return filepath.ToSlash(filepath.Join(c.DocsRoot, "frameworks"))
}

// InternalRoot returns the docs subdirectory for internal pattern docs,
// relative to the project root.
func (c *ProjectConfig) InternalRoot() string {
	return filepath.ToSlash(filepath.Join(c.DocsRoot, "internal"))
}

// PDIPath returns the absolute path to the .pdi directory.
func PDIPath(projectRoot string) string {
	return filepath.Join(projectRoot, PDIDir)
}

// ConfigPath returns the absolute path to .pdi/config.json.
func ConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, PDIDir, ConfigFile)
}

// CachePath returns the absolute path to .pdi/cache.db.
func CachePath(projectRoot string) string {
	return filepath.Join(projectRoot, PDIDir, CacheFile)
}

// Exists reports whether a pdi config is present under projectRoot.
func Exists(projectRoot string) bool {
	_, err := os.Stat(ConfigPath(projectRoot))
	return err == nil
}

// Store defines the persistence interface for project configs.
// Abstracted for testability.
type Store interface {
	Load(projectRoot string) (*ProjectConfig, error)
	Save(projectRoot string, cfg *ProjectConfig) error
}

// FileStore implements Store using the local filesystem.
type FileStore struct {
	validate *validator.Validate
}

// NewFileStore creates a filesystem-backed config store.
func NewFileStore() *FileStore {
	return &FileStore{validate: validator.New()}
}

// Load reads and validates .pdi/config.json.
func (fs *FileStore) Load(projectRoot string) (*ProjectConfig, error) {
	data, err := os.ReadFile(ConfigPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.NotInitializedError{}
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	var cfg ProjectConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFile, err)
	}
	if cfg.Frameworks == nil {
		cfg.Frameworks = map[string]FrameworkConfig{}
	}

	if err := fs.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save validates and writes the config, refreshing UpdatedAt.
func (fs *FileStore) Save(projectRoot string, cfg *ProjectConfig) error {
	if err := fs.Validate(cfg); err != nil {
		return err
	}
	cfg.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(PDIPath(projectRoot), 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", PDIDir, err)
	}
	return os.WriteFile(ConfigPath(projectRoot), data, 0o644)
}

// Validate checks the config against the schema, returning a
// *errs.ConfigError listing every violated field.
func (fs *FileStore) Validate(cfg *ProjectConfig) error {
	err := fs.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	issues := make([]errs.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, errs.Issue{
			Path:    fieldPath(fe.Namespace()),
			Message: violationMessage(fe),
		})
	}
	return &errs.ConfigError{
		Issues: issues,
		Hint:   "fix " + ConfigFile + " by hand, or re-run `pdi init`",
	}
}

// fieldPath strips the root struct name from a validator namespace so the
// reported path matches the JSON document ("Frameworks[react].Version").
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
