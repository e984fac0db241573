package source

import (
	"context"
	"fmt"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

// StaticSource emits entries listed verbatim in the manifest. The entries
// are converted once at load time; a lastmod that cannot be parsed is a
// manifest error, not an entry failure. Relative locations are resolved
// against the base URL, so manifests may list bare paths.
type StaticSource struct {
	name    string
	entries []sitemap.Entry
}

var _ SourceInterface = (*StaticSource)(nil)

func NewStaticSource(name string, opts StaticOptions, baseURL string, settings ManifestSettings) (*StaticSource, error) {
	entries := make([]sitemap.Entry, 0, len(opts.Entries))

	for i, raw := range opts.Entries {
		entry := sitemap.Entry{
			Location:   resolveLocation(baseURL, raw.Location),
			ChangeFreq: sitemap.ChangeFreq(raw.ChangeFreq),
			Priority:   raw.Priority,
		}

		if raw.LastMod != "" {
			lastMod, err := parseTime(raw.LastMod)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			entry.LastMod = lastMod
		}

		for _, alt := range raw.Alternates {
			entry.Alternates = append(entry.Alternates, sitemap.Alternate{
				Hreflang: alt.Hreflang,
				Location: resolveLocation(baseURL, alt.Location),
			})
		}

		applyDefaults(&entry, settings)
		entries = append(entries, entry)
	}

	return &StaticSource{
		name:    name,
		entries: entries,
	}, nil
}

func (s *StaticSource) Name() string {
	return s.name
}

func (s *StaticSource) Emit(ctx context.Context, c *sitemap.Collection) error {
	for i := range s.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.AddEntry(s.entries[i])
	}
	return nil
}
