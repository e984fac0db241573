package cfg

type Cfg struct {
	// Input and output locations
	SourcesDir string
	OutputDir  string

	// Generated file naming
	BaseUrl     string
	NamePattern string
	IndexName   string
	Compress    bool

	// Build configuration
	WorkerCount int

	// Application metadata
	Debug   bool
	Version string
}
