package build

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/okhmat/sitemap-mill/app/render"
	"github.com/okhmat/sitemap-mill/app/sitemap"
	"github.com/okhmat/sitemap-mill/app/writer"
)

// Builder renders and writes every page of a collection plus the index
// document that references them. Pages are independent, so they are built
// by a small worker pool; the index is written last, and is written even
// when the collection is empty so that a stale index never outlives its
// pages.
type Builder struct {
	collection  *sitemap.Collection
	renderer    *render.Renderer
	writer      *writer.Writer
	workerCount int
}

// Report summarizes one build run. Entries counts the entries written,
// Rejected the add-time validation failures, Skipped the render-time
// skips.
type Report struct {
	Pages     int
	Entries   int
	Rejected  int
	Skipped   int
	Files     []string
	IndexFile string
	Duration  time.Duration
}

func NewBuilder(collection *sitemap.Collection, renderer *render.Renderer, w *writer.Writer, workerCount int) *Builder {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Builder{
		collection:  collection,
		renderer:    renderer,
		writer:      w,
		workerCount: workerCount,
	}
}

func (b *Builder) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	pageCount := b.collection.PageCount()

	if pageCount == 0 {
		slog.Warn("No entries collected")
	}

	files := make([]string, pageCount)
	skipped := 0
	var buildErr error

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < b.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for page := range jobs {
				if ctx.Err() != nil {
					continue
				}

				name, pageSkipped, err := b.buildPage(page)

				mu.Lock()
				if err != nil {
					if buildErr == nil {
						buildErr = fmt.Errorf("page %d: %w", page+1, err)
					}
				} else {
					files[page] = name
					skipped += pageSkipped
				}
				mu.Unlock()

				if err != nil {
					slog.Error("Page build failed", "worker_id", workerID, "page", page+1, "error", err)
				}
			}
		}(i)
	}

send:
	for page := 0; page < pageCount; page++ {
		select {
		case jobs <- page:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if buildErr != nil {
		return nil, buildErr
	}

	indexFile, err := b.buildIndex(start)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Pages:     pageCount,
		Entries:   b.collection.Len(),
		Rejected:  b.collection.Failed(),
		Skipped:   skipped,
		Files:     files,
		IndexFile: indexFile,
		Duration:  time.Since(start),
	}

	slog.Info("Sitemap build completed",
		"pages", report.Pages,
		"entries", report.Entries,
		"rejected", report.Rejected,
		"skipped", report.Skipped,
		"index", report.IndexFile,
		"duration", report.Duration.String())

	return report, nil
}

func (b *Builder) buildPage(page int) (string, int, error) {
	entries, err := b.collection.Page(page)
	if err != nil {
		return "", 0, err
	}

	data, skipped, err := b.renderer.Page(entries)
	if err != nil {
		return "", 0, err
	}

	name, err := b.collection.PageFilename(page)
	if err != nil {
		return "", 0, err
	}

	path, err := b.writer.Write(name, data)
	if err != nil {
		return "", 0, err
	}

	slog.Debug("Sitemap page written", "page", page+1, "file", path, "entries", len(entries), "skipped", skipped)
	return name, skipped, nil
}

func (b *Builder) buildIndex(builtAt time.Time) (string, error) {
	urls, err := b.collection.PageURLs()
	if err != nil {
		return "", err
	}

	refs := make([]render.Ref, len(urls))
	for i, url := range urls {
		refs[i] = render.Ref{Location: url, LastMod: &builtAt}
	}

	data, err := b.renderer.Index(refs)
	if err != nil {
		return "", err
	}

	path, err := b.writer.Write(b.collection.IndexName(), data)
	if err != nil {
		return "", fmt.Errorf("failed to write index: %w", err)
	}

	slog.Debug("Sitemap index written", "file", path, "references", len(refs))
	return path, nil
}
