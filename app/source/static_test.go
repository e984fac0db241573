package source

import (
	"context"
	"testing"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

func newTestCollection(t *testing.T) *sitemap.Collection {
	t.Helper()

	collection, err := sitemap.NewCollection(sitemap.Options{BaseURL: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	return collection
}

func TestStaticSourceEmit(t *testing.T) {
	priority := 1.0
	opts := StaticOptions{
		Entries: []StaticEntry{
			{
				Location:   "https://example.com/",
				LastMod:    "2024-05-01",
				ChangeFreq: "daily",
				Priority:   &priority,
				Alternates: []StaticAlternate{
					{Hreflang: "en", Location: "https://example.com/en/"},
				},
			},
			{Location: "https://example.com/about"},
		},
	}

	defaultPriority := 0.5
	settings := ManifestSettings{ChangeFreq: "monthly", Priority: &defaultPriority}

	source, err := NewStaticSource("site", opts, "https://example.com", settings)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	collection := newTestCollection(t)
	if err := source.Emit(context.Background(), collection); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if collection.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", collection.Len())
	}
	if collection.Failed() != 0 {
		t.Errorf("Expected no rejected entries, got %d", collection.Failed())
	}

	entries := collection.Entries()

	first := entries[0]
	if first.Location != "https://example.com/" {
		t.Errorf("Expected first location to be preserved, got: %s", first.Location)
	}
	if first.LastMod == nil || first.LastMod.Format("2006-01-02") != "2024-05-01" {
		t.Errorf("Expected parsed lastmod, got: %v", first.LastMod)
	}
	if first.ChangeFreq != sitemap.Daily {
		t.Errorf("Expected entry changefreq to win over the default, got: %s", first.ChangeFreq)
	}
	if first.Priority == nil || *first.Priority != 1.0 {
		t.Errorf("Expected entry priority to win over the default, got: %v", first.Priority)
	}
	if len(first.Alternates) != 1 || first.Alternates[0].Hreflang != "en" {
		t.Errorf("Expected one en alternate, got: %v", first.Alternates)
	}

	second := entries[1]
	if second.ChangeFreq != sitemap.Monthly {
		t.Errorf("Expected default changefreq to apply, got: %s", second.ChangeFreq)
	}
	if second.Priority == nil || *second.Priority != 0.5 {
		t.Errorf("Expected default priority to apply, got: %v", second.Priority)
	}
}

func TestStaticSourceEmit_InvalidEntriesIsolated(t *testing.T) {
	opts := StaticOptions{
		Entries: []StaticEntry{
			{Location: "https://example.com/good"},
			{Location: ""},
			{Location: "https://example.com/another"},
		},
	}

	source, err := NewStaticSource("site", opts, "https://example.com", ManifestSettings{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	collection := newTestCollection(t)
	if err := source.Emit(context.Background(), collection); err != nil {
		t.Fatalf("Expected emit to continue past invalid entries, got: %v", err)
	}

	if collection.Len() != 2 {
		t.Errorf("Expected 2 accepted entries, got %d", collection.Len())
	}
	if collection.Failed() != 1 {
		t.Errorf("Expected 1 rejected entry, got %d", collection.Failed())
	}
}

func TestStaticSourceEmit_RelativeLocationsResolved(t *testing.T) {
	opts := StaticOptions{
		Entries: []StaticEntry{
			{Location: "/about"},
			{Location: "contact"},
			{
				Location: "/",
				Alternates: []StaticAlternate{
					{Hreflang: "de", Location: "/de/"},
				},
			},
		},
	}

	source, err := NewStaticSource("site", opts, "https://example.com/", ManifestSettings{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	collection := newTestCollection(t)
	if err := source.Emit(context.Background(), collection); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if collection.Failed() != 0 {
		t.Fatalf("Expected relative locations to resolve, got %d rejected", collection.Failed())
	}

	entries := collection.Entries()
	if entries[0].Location != "https://example.com/about" {
		t.Errorf("Expected /about resolved against the base URL, got: %s", entries[0].Location)
	}
	if entries[1].Location != "https://example.com/contact" {
		t.Errorf("Expected bare path resolved against the base URL, got: %s", entries[1].Location)
	}
	if entries[2].Location != "https://example.com/" {
		t.Errorf("Expected / resolved to the site root, got: %s", entries[2].Location)
	}
	if entries[2].Alternates[0].Location != "https://example.com/de/" {
		t.Errorf("Expected alternate href resolved against the base URL, got: %s", entries[2].Alternates[0].Location)
	}
}

func TestNewStaticSource_BadLastMod(t *testing.T) {
	opts := StaticOptions{
		Entries: []StaticEntry{
			{Location: "https://example.com/", LastMod: "yesterday"},
		},
	}

	if _, err := NewStaticSource("site", opts, "https://example.com", ManifestSettings{}); err == nil {
		t.Error("Expected error for unparsable lastmod")
	}
}

func TestStaticSourceEmit_Cancelled(t *testing.T) {
	opts := StaticOptions{
		Entries: []StaticEntry{
			{Location: "https://example.com/"},
		},
	}

	source, err := NewStaticSource("site", opts, "https://example.com", ManifestSettings{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collection := newTestCollection(t)
	if err := source.Emit(ctx, collection); err == nil {
		t.Error("Expected error from cancelled context")
	}
	if collection.Len() != 0 {
		t.Errorf("Expected no entries after cancellation, got %d", collection.Len())
	}
}

func TestFuncSourceEmit(t *testing.T) {
	source := NewFuncSource("generated", func(ctx context.Context, c *sitemap.Collection) error {
		return c.Add("https://example.com/generated")
	})

	if source.Name() != "generated" {
		t.Errorf("Expected name 'generated', got: %s", source.Name())
	}

	collection := newTestCollection(t)
	if err := source.Emit(context.Background(), collection); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if collection.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", collection.Len())
	}
}
