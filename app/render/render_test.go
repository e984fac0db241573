package render

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

func TestRenderer_Page(t *testing.T) {
	renderer := NewRenderer()

	lastMod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	priority := 0.8

	entries := []sitemap.Entry{
		{
			Location:   "https://example.com/products/1",
			LastMod:    &lastMod,
			ChangeFreq: sitemap.Weekly,
			Priority:   &priority,
		},
		{
			Location: "https://example.com/products/2",
		},
	}

	data, skipped, err := renderer.Page(entries)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected no skipped entries, got %d", skipped)
	}

	page := string(data)

	if !strings.Contains(page, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("Page should contain XML declaration")
	}
	if !strings.Contains(page, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("Page should open a urlset with the sitemap namespace")
	}
	if !strings.Contains(page, `xsi:schemaLocation="http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"`) {
		t.Error("Page should declare the sitemap schema location")
	}
	if strings.Contains(page, "xmlns:xhtml") {
		t.Error("Page without alternates should not declare the xhtml namespace")
	}
	if !strings.Contains(page, "<loc>https://example.com/products/1</loc>") {
		t.Error("Page should contain the first location")
	}
	if !strings.Contains(page, "<lastmod>2024-05-01T12:00:00Z</lastmod>") {
		t.Error("Page should contain the formatted lastmod")
	}
	if !strings.Contains(page, "<changefreq>weekly</changefreq>") {
		t.Error("Page should contain the changefreq")
	}
	if !strings.Contains(page, "<priority>0.8</priority>") {
		t.Error("Page should contain the priority")
	}
	if !strings.Contains(page, "<loc>https://example.com/products/2</loc>") {
		t.Error("Page should contain the second location")
	}
	if !strings.Contains(page, "</urlset>") {
		t.Error("Page should close the urlset")
	}

	// Optional elements of the second entry must be absent, not empty.
	if strings.Count(page, "<changefreq>") != 1 {
		t.Errorf("Expected exactly one changefreq element, got %d", strings.Count(page, "<changefreq>"))
	}
	if strings.Count(page, "<priority>") != 1 {
		t.Errorf("Expected exactly one priority element, got %d", strings.Count(page, "<priority>"))
	}

	assertWellFormed(t, data)
}

func TestRenderer_Page_ElementOrder(t *testing.T) {
	renderer := NewRenderer()

	lastMod := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	priority := 0.5

	data, _, err := renderer.Page([]sitemap.Entry{{
		Location:   "https://example.com/",
		LastMod:    &lastMod,
		ChangeFreq: sitemap.Daily,
		Priority:   &priority,
	}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	page := string(data)
	loc := strings.Index(page, "<loc>")
	lastmod := strings.Index(page, "<lastmod>")
	changefreq := strings.Index(page, "<changefreq>")
	prio := strings.Index(page, "<priority>")

	if loc == -1 || lastmod == -1 || changefreq == -1 || prio == -1 {
		t.Fatal("Expected all four elements to be present")
	}
	if !(loc < lastmod && lastmod < changefreq && changefreq < prio) {
		t.Error("Expected element order loc, lastmod, changefreq, priority")
	}
}

func TestRenderer_Page_Alternates(t *testing.T) {
	renderer := NewRenderer()

	entries := []sitemap.Entry{{
		Location: "https://example.com/page",
		Alternates: []sitemap.Alternate{
			{Hreflang: "en", Location: "https://example.com/en/page"},
			{Hreflang: "x-default", Location: "https://example.com/page?a=1&b=2"},
		},
	}}

	data, skipped, err := renderer.Page(entries)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected no skipped entries, got %d", skipped)
	}

	page := string(data)

	if !strings.Contains(page, `xmlns:xhtml="http://www.w3.org/1999/xhtml"`) {
		t.Error("Page with alternates should declare the xhtml namespace")
	}
	if !strings.Contains(page, `<xhtml:link rel="alternate" hreflang="en" href="https://example.com/en/page" />`) {
		t.Error("Page should contain the en alternate link")
	}
	if !strings.Contains(page, `hreflang="x-default"`) {
		t.Error("Page should contain the x-default alternate")
	}
	if !strings.Contains(page, "https://example.com/page?a=1&amp;b=2") {
		t.Error("Alternate href should be XML-escaped")
	}

	assertWellFormed(t, data)
}

func TestRenderer_Page_EscapesText(t *testing.T) {
	renderer := NewRenderer()

	data, _, err := renderer.Page([]sitemap.Entry{{
		Location: "https://example.com/search?q=a&b=<c>",
	}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	page := string(data)
	if !strings.Contains(page, "<loc>https://example.com/search?q=a&amp;b=&lt;c&gt;</loc>") {
		t.Errorf("Expected escaped location, got: %s", page)
	}
}

func TestRenderer_Page_PriorityPlainDecimal(t *testing.T) {
	renderer := NewRenderer()

	priority := 0.00001
	data, _, err := renderer.Page([]sitemap.Entry{{
		Location: "https://example.com/",
		Priority: &priority,
	}})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	page := string(data)
	if !strings.Contains(page, "<priority>0.00001</priority>") {
		t.Errorf("Expected plain decimal priority, got: %s", page)
	}
	if strings.Contains(page, "e-") {
		t.Error("Priority must not use exponent notation")
	}
}

func TestRenderer_Page_SkipsUnrenderable(t *testing.T) {
	renderer := NewRenderer()

	entries := []sitemap.Entry{
		{Location: "https://example.com/good"},
		{Location: "https://example.com/bad\xff"},
		{Location: "https://example.com/bad\x00"},
		{Location: "https://example.com/also-good"},
	}

	data, skipped, err := renderer.Page(entries)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if skipped != 2 {
		t.Errorf("Expected 2 skipped entries, got %d", skipped)
	}

	page := string(data)
	if !strings.Contains(page, "<loc>https://example.com/good</loc>") {
		t.Error("Page should still contain the first valid entry")
	}
	if !strings.Contains(page, "<loc>https://example.com/also-good</loc>") {
		t.Error("Page should still contain the last valid entry")
	}
	if strings.Contains(page, "bad") {
		t.Error("Page should not contain skipped entries")
	}
	if strings.Count(page, "<url>") != 2 {
		t.Errorf("Expected 2 url blocks, got %d", strings.Count(page, "<url>"))
	}
}

func TestRenderer_Page_Empty(t *testing.T) {
	renderer := NewRenderer()

	data, skipped, err := renderer.Page(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if skipped != 0 {
		t.Errorf("Expected no skipped entries, got %d", skipped)
	}

	page := string(data)
	if !strings.Contains(page, "<urlset") || !strings.Contains(page, "</urlset>") {
		t.Error("Empty page should still be a complete urlset document")
	}
	if strings.Contains(page, "<url>") {
		t.Error("Empty page should not contain url blocks")
	}

	assertWellFormed(t, data)
}

func TestRenderer_Index(t *testing.T) {
	renderer := NewRenderer()

	lastMod := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

	refs := []Ref{
		{Location: "https://example.com/sitemap_1.xml", LastMod: &lastMod},
		{Location: "https://example.com/sitemap_2.xml"},
	}

	data, err := renderer.Index(refs)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	index := string(data)

	if !strings.Contains(index, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("Index should contain XML declaration")
	}
	if !strings.Contains(index, `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Error("Index should open a sitemapindex with the sitemap namespace")
	}
	if !strings.Contains(index, `xsi:schemaLocation="http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/siteindex.xsd"`) {
		t.Error("Index should declare the siteindex schema location")
	}
	if !strings.Contains(index, "<loc>https://example.com/sitemap_1.xml</loc>") {
		t.Error("Index should reference the first page")
	}
	if !strings.Contains(index, "<loc>https://example.com/sitemap_2.xml</loc>") {
		t.Error("Index should reference the second page")
	}
	if !strings.Contains(index, "<lastmod>2024-05-02T08:30:00Z</lastmod>") {
		t.Error("Index should carry the lastmod of the first reference")
	}
	if strings.Count(index, "<lastmod>") != 1 {
		t.Errorf("Expected exactly one lastmod element, got %d", strings.Count(index, "<lastmod>"))
	}
	if strings.Count(index, "<sitemap>") != 2 {
		t.Errorf("Expected 2 sitemap references, got %d", strings.Count(index, "<sitemap>"))
	}

	assertWellFormed(t, data)
}

func TestRenderer_Index_Empty(t *testing.T) {
	renderer := NewRenderer()

	data, err := renderer.Index(nil)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	index := string(data)
	if !strings.Contains(index, "<sitemapindex") || !strings.Contains(index, "</sitemapindex>") {
		t.Error("Empty index should still be a complete sitemapindex document")
	}
	if strings.Contains(index, "<sitemap>") {
		t.Error("Empty index should not contain sitemap references")
	}

	assertWellFormed(t, data)
}

func assertWellFormed(t *testing.T, data []byte) {
	t.Helper()

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("Expected well-formed XML, got: %v", err)
		}
	}
}
