package source

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/gofeed"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

// FeedSource emits one entry per item of an RSS, Atom, or JSON feed file,
// using the item link as the location and the item's updated or published
// date as lastmod.
type FeedSource struct {
	name         string
	path         string
	settings     ManifestSettings
	gofeedParser *gofeed.Parser
}

var _ SourceInterface = (*FeedSource)(nil)

func NewFeedSource(name string, opts FeedOptions, settings ManifestSettings) *FeedSource {
	return &FeedSource{
		name:         name,
		path:         opts.Path,
		settings:     settings,
		gofeedParser: gofeed.NewParser(),
	}
}

func (s *FeedSource) Name() string {
	return s.name
}

func (s *FeedSource) Emit(ctx context.Context, c *sitemap.Collection) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("failed to open feed file: %w", err)
	}
	defer file.Close()

	feed, err := s.gofeedParser.Parse(file)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	for _, item := range feed.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		if item.Link == "" {
			slog.Debug("Feed item has no link", "source", s.name, "title", item.Title)
			continue
		}

		entry := sitemap.Entry{
			Location: item.Link,
			LastMod:  cmp.Or(item.UpdatedParsed, item.PublishedParsed),
		}
		applyDefaults(&entry, s.settings)

		c.AddEntry(entry)
	}

	return nil
}
