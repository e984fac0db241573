package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

// DirSource walks a directory of published HTML files and emits one entry
// per page, mapping the file path to a URL under the site base URL. Pages
// with a robots noindex meta tag are excluded; a canonical link overrides
// the derived URL; the file modification time becomes lastmod.
type DirSource struct {
	name     string
	root     string
	baseURL  string
	settings ManifestSettings
}

var _ SourceInterface = (*DirSource)(nil)

func NewDirSource(name string, opts DirOptions, baseURL string, settings ManifestSettings) *DirSource {
	return &DirSource{
		name:     name,
		root:     opts.Path,
		baseURL:  baseURL,
		settings: settings,
	}
}

func (s *DirSource) Name() string {
	return s.name
}

func (s *DirSource) Emit(ctx context.Context, c *sitemap.Collection) error {
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".htm" {
			return nil
		}

		entry, excluded, err := s.scanPage(path, d)
		if err != nil {
			// An unreadable page must not lose the remaining pages.
			slog.Warn("Page file skipped", "source", s.name, "file", path, "error", err)
			return nil
		}
		if excluded {
			slog.Debug("Page excluded by robots meta", "source", s.name, "file", path)
			return nil
		}

		c.AddEntry(entry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", s.root, err)
	}

	return nil
}

func (s *DirSource) scanPage(path string, d fs.DirEntry) (sitemap.Entry, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return sitemap.Entry{}, false, fmt.Errorf("failed to open page: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return sitemap.Entry{}, false, fmt.Errorf("failed to parse page: %w", err)
	}

	if robots, _ := doc.Find("meta[name='robots']").Attr("content"); strings.Contains(strings.ToLower(robots), "noindex") {
		return sitemap.Entry{}, true, nil
	}

	location := s.pageURL(path)
	if canonical, exists := doc.Find("link[rel='canonical']").Attr("href"); exists && canonical != "" {
		// A root-relative canonical still names a page on this site.
		location = resolveLocation(s.baseURL, canonical)
	}

	entry := sitemap.Entry{Location: location}

	if info, err := d.Info(); err == nil {
		lastMod := info.ModTime().UTC()
		entry.LastMod = &lastMod
	}

	applyDefaults(&entry, s.settings)
	return entry, false, nil
}

// pageURL maps a file path below the source root to its public URL.
// index.html files resolve to their directory URL.
func (s *DirSource) pageURL(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	base := strings.TrimRight(s.baseURL, "/")
	if rel == "index.html" {
		return base + "/"
	}
	if strings.HasSuffix(rel, "/index.html") {
		return base + "/" + strings.TrimSuffix(rel, "index.html")
	}
	return base + "/" + rel
}
