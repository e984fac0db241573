package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/okhmat/sitemap-mill/app/build"
	"github.com/okhmat/sitemap-mill/app/cfg"
	"github.com/okhmat/sitemap-mill/app/render"
	"github.com/okhmat/sitemap-mill/app/sitemap"
	"github.com/okhmat/sitemap-mill/app/source"
	"github.com/okhmat/sitemap-mill/app/writer"
)

func main() {
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting sitemap build", "version", appCfg.Version, "base_url", appCfg.BaseUrl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appCfg); err != nil {
		slog.Error("Sitemap build failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg *cfg.Cfg) error {
	namePattern := appCfg.NamePattern
	indexName := appCfg.IndexName
	if appCfg.Compress {
		namePattern = gzName(namePattern)
		indexName = gzName(indexName)
	}

	collection, err := sitemap.NewCollection(sitemap.Options{
		BaseURL:     appCfg.BaseUrl,
		NamePattern: namePattern,
		IndexName:   indexName,
	})
	if err != nil {
		return err
	}

	slog.Info("Loading source manifests", "dir", appCfg.SourcesDir)
	loader := source.NewLoader(appCfg.SourcesDir, appCfg.BaseUrl)
	sources, err := loader.Run()
	if err != nil {
		return err
	}
	slog.Info("Sources loaded", "count", len(sources))

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		slog.Info("Collecting entries", "source", src.Name())
		if err := src.Emit(ctx, collection); err != nil {
			slog.Warn("Source failed, continuing with remaining sources", "source", src.Name(), "error", err)
		}
	}

	slog.Info("Collection complete",
		"entries", collection.Len(),
		"rejected", collection.Failed(),
		"pages", collection.PageCount())

	builder := build.NewBuilder(collection,
		render.NewRenderer(),
		writer.NewWriter(appCfg.OutputDir, appCfg.Compress),
		appCfg.WorkerCount)

	report, err := builder.Run(ctx)
	if err != nil {
		return err
	}

	indexURL := strings.TrimRight(appCfg.BaseUrl, "/") + "/" + indexName
	slog.Info("Sitemap written", "index", report.IndexFile, "robots_txt", "Sitemap: "+indexURL)

	return nil
}

// gzName appends the .gz suffix unless the name already carries it, so the
// filenames referenced from the index match the compressed files on disk.
func gzName(name string) string {
	if strings.HasSuffix(name, ".gz") {
		return name
	}
	return name + ".gz"
}
