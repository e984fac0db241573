package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

// SourceInterface defines one origin of sitemap entries. Emit feeds every
// entry the origin knows about into the collection and honors ctx between
// entries. Per-entry validation is the collection's job: a rejected entry is
// counted and logged there and must not abort the emit. Errors returned from
// Emit describe origin-level failures (unreadable file, failing query).
type SourceInterface interface {
	Name() string
	Emit(ctx context.Context, c *sitemap.Collection) error
}

// FuncSource adapts a plain enumerator function to SourceInterface, for
// callers that produce locations programmatically instead of from a
// manifest.
type FuncSource struct {
	name string
	emit func(ctx context.Context, c *sitemap.Collection) error
}

var _ SourceInterface = (*FuncSource)(nil)

func NewFuncSource(name string, emit func(ctx context.Context, c *sitemap.Collection) error) *FuncSource {
	return &FuncSource{
		name: name,
		emit: emit,
	}
}

func (s *FuncSource) Name() string {
	return s.name
}

func (s *FuncSource) Emit(ctx context.Context, c *sitemap.Collection) error {
	return s.emit(ctx, c)
}

// lastModFormats are the accepted lastmod notations, tried in order: full
// datetime, datetime without seconds, bare date.
var lastModFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

func parseTime(value string) (*time.Time, error) {
	for _, format := range lastModFormats {
		if t, err := time.Parse(format, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unsupported datetime %q", value)
}

// resolveLocation joins a relative location onto the base URL. Absolute
// locations and anything unparsable pass through unchanged, leaving the
// rejection to entry validation.
func resolveLocation(base, loc string) string {
	if loc == "" || base == "" {
		return loc
	}
	u, err := url.Parse(loc)
	if err != nil || u.IsAbs() {
		return loc
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(loc, "/")
}
