package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Input and output locations
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source manifest files"`
	OutputDir  string `long:"output-dir" env:"OUTPUT_DIR" default:"./public" description:"Directory the generated files are written to"`

	// Generated file naming
	BaseUrl     string `long:"base-url" env:"BASE_URL" description:"Public base URL the generated files are served under (e.g., https://www.example.com)" required:"true"`
	NamePattern string `long:"name-pattern" env:"NAME_PATTERN" default:"sitemap_%d.xml" description:"Page filename pattern holding one %d placeholder"`
	IndexName   string `long:"index-name" env:"INDEX_NAME" default:"sitemapindex.xml" description:"Sitemap index filename"`
	Compress    bool   `long:"compress" env:"COMPRESS" description:"Gzip generated files and append .gz to their names"`

	// Build configuration
	WorkerCount int `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of parallel page writers"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		SourcesDir:  raw.SourcesDir,
		OutputDir:   raw.OutputDir,
		BaseUrl:     raw.BaseUrl,
		NamePattern: raw.NamePattern,
		IndexName:   raw.IndexName,
		Compress:    raw.Compress,
		WorkerCount: raw.WorkerCount,
		Debug:       raw.Debug,
		Version:     GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
