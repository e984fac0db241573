package source

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

// Manifest types

type Manifest struct {
	Name     string           // Derived from filename (without extension)
	Type     string           `yaml:"type"`
	Settings ManifestSettings `yaml:"settings"`
	Static   StaticOptions    `yaml:"static"`
	Feed     FeedOptions      `yaml:"feed"`
	Dir      DirOptions       `yaml:"dir"`
	SQLite   SQLiteOptions    `yaml:"sqlite"`
}

// ManifestSettings carries per-source defaults. ChangeFreq and Priority are
// applied to every emitted entry that does not set its own value.
type ManifestSettings struct {
	Enabled    *bool    `yaml:"enabled"` // missing means enabled
	ChangeFreq string   `yaml:"changefreq"`
	Priority   *float64 `yaml:"priority"`
}

type StaticOptions struct {
	Entries []StaticEntry `yaml:"entries"`
}

type StaticEntry struct {
	Location   string            `yaml:"loc"`
	LastMod    string            `yaml:"lastmod"`
	ChangeFreq string            `yaml:"changefreq"`
	Priority   *float64          `yaml:"priority"`
	Alternates []StaticAlternate `yaml:"alternates"`
}

type StaticAlternate struct {
	Hreflang string `yaml:"hreflang"`
	Location string `yaml:"href"`
}

type FeedOptions struct {
	Path string `yaml:"path"`
}

type DirOptions struct {
	Path string `yaml:"path"`
}

type SQLiteOptions struct {
	Path  string `yaml:"path"`
	Query string `yaml:"query"`
}

func (s ManifestSettings) enabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// applyDefaults fills the entry's optional fields from the source settings.
func applyDefaults(e *sitemap.Entry, s ManifestSettings) {
	if e.ChangeFreq == "" && s.ChangeFreq != "" {
		e.ChangeFreq = sitemap.ChangeFreq(s.ChangeFreq)
	}
	if e.Priority == nil && s.Priority != nil {
		priority := *s.Priority
		e.Priority = &priority
	}
}

// Loader reads source manifests from a directory. Each .yml or .yaml file
// describes one source; the source name is derived from the filename. A
// malformed manifest fails the load outright, unlike a malformed entry,
// which is handled downstream by the collection.
type Loader struct {
	sourcesDir string
	baseURL    string
}

func NewLoader(sourcesDir, baseURL string) *Loader {
	return &Loader{
		sourcesDir: sourcesDir,
		baseURL:    baseURL,
	}
}

// Run loads every manifest and returns the enabled sources in filename
// order. A missing sources directory yields no sources and no error.
func (l *Loader) Run() ([]SourceInterface, error) {
	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	yamlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)

	sources := make([]SourceInterface, 0, len(files))
	for _, file := range files {
		manifest, err := l.parseManifest(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validateManifest(manifest); err != nil {
			return nil, fmt.Errorf("invalid manifest %s: %w", file, err)
		}

		if !manifest.Settings.enabled() {
			slog.Debug("Source disabled", "source", manifest.Name)
			continue
		}

		source, err := l.buildSource(manifest)
		if err != nil {
			return nil, fmt.Errorf("invalid manifest %s: %w", file, err)
		}

		slog.Debug("Source manifest loaded", "source", manifest.Name, "type", manifest.Type)
		sources = append(sources, source)
	}

	return sources, nil
}

func (l *Loader) parseManifest(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Derive source name from filename
	fileName := filepath.Base(file)
	manifest.Name = strings.TrimSuffix(fileName, filepath.Ext(fileName))

	return &manifest, nil
}

func (l *Loader) validateManifest(manifest *Manifest) error {
	if manifest.Type == "" {
		return fmt.Errorf("source type is required")
	}

	validTypes := map[string]bool{
		"static": true,
		"feed":   true,
		"dir":    true,
		"sqlite": true,
	}
	if !validTypes[manifest.Type] {
		return fmt.Errorf("unknown source type: %s", manifest.Type)
	}

	if freq := manifest.Settings.ChangeFreq; freq != "" && !sitemap.ChangeFreq(freq).Valid() {
		return fmt.Errorf("invalid default changefreq: %s", freq)
	}
	if p := manifest.Settings.Priority; p != nil && !(*p >= 0.0 && *p <= 1.0) {
		return fmt.Errorf("default priority must be within [0.0, 1.0], got %v", *p)
	}

	switch manifest.Type {
	case "feed":
		if manifest.Feed.Path == "" {
			return fmt.Errorf("feed path is required")
		}
	case "dir":
		if manifest.Dir.Path == "" {
			return fmt.Errorf("dir path is required")
		}
	case "sqlite":
		if manifest.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
		if manifest.SQLite.Query == "" {
			return fmt.Errorf("sqlite query is required")
		}
	}

	return nil
}

func (l *Loader) buildSource(manifest *Manifest) (SourceInterface, error) {
	switch manifest.Type {
	case "static":
		return NewStaticSource(manifest.Name, manifest.Static, l.baseURL, manifest.Settings)
	case "feed":
		return NewFeedSource(manifest.Name, manifest.Feed, manifest.Settings), nil
	case "dir":
		return NewDirSource(manifest.Name, manifest.Dir, l.baseURL, manifest.Settings), nil
	case "sqlite":
		return NewSQLiteSource(manifest.Name, manifest.SQLite, manifest.Settings), nil
	}
	return nil, fmt.Errorf("unknown source type: %s", manifest.Type)
}
