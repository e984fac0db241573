package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

const (
	sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xsiXmlns     = "http://www.w3.org/2001/XMLSchema-instance"
	xhtmlXmlns   = "http://www.w3.org/1999/xhtml"
	urlsetSchema = "http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"
	indexSchema  = "http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/siteindex.xsd"
)

// Ref is one sitemap file reference inside a sitemap index document.
type Ref struct {
	Location string
	LastMod  *time.Time
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Page renders entries as a urlset document. An entry whose text cannot be
// represented in XML is skipped, logged, and counted in the second return
// value; a skipped entry never fails the page.
func (r *Renderer) Page(entries []sitemap.Entry) ([]byte, int, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf(`<urlset xmlns="%s" xmlns:xsi="%s" xsi:schemaLocation="%s"`,
		sitemapXmlns, xsiXmlns, urlsetSchema))
	if hasAlternates(entries) {
		buf.WriteString(fmt.Sprintf(` xmlns:xhtml="%s"`, xhtmlXmlns))
	}
	buf.WriteString(">\n")

	skipped := 0
	for i := range entries {
		if err := renderable(&entries[i]); err != nil {
			skipped++
			slog.Warn("Entry skipped", "location", entries[i].Location, "error", err)
			continue
		}
		r.writeEntry(&buf, &entries[i])
	}

	buf.WriteString("</urlset>\n")

	return buf.Bytes(), skipped, nil
}

// Index renders page references as a sitemapindex document. An index with no
// references is still a valid, empty document.
func (r *Renderer) Index(refs []Ref) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf(`<sitemapindex xmlns="%s" xmlns:xsi="%s" xsi:schemaLocation="%s">`,
		sitemapXmlns, xsiXmlns, indexSchema))
	buf.WriteString("\n")

	for _, ref := range refs {
		buf.WriteString("  <sitemap>\n")
		r.writeElement(&buf, "loc", ref.Location, 4)
		if ref.LastMod != nil {
			r.writeElement(&buf, "lastmod", ref.LastMod.Format(time.RFC3339), 4)
		}
		buf.WriteString("  </sitemap>\n")
	}

	buf.WriteString("</sitemapindex>\n")

	return buf.Bytes(), nil
}

func (r *Renderer) writeEntry(buf *bytes.Buffer, e *sitemap.Entry) {
	buf.WriteString("  <url>\n")

	r.writeElement(buf, "loc", e.Location, 4)

	if e.LastMod != nil {
		r.writeElement(buf, "lastmod", e.LastMod.Format(time.RFC3339), 4)
	}

	if e.ChangeFreq != "" {
		r.writeElement(buf, "changefreq", string(e.ChangeFreq), 4)
	}

	if e.Priority != nil {
		// Plain decimal notation: the schema's decimal type has no exponent form.
		r.writeElement(buf, "priority", strconv.FormatFloat(*e.Priority, 'f', -1, 64), 4)
	}

	for _, alt := range e.Alternates {
		buf.WriteString(fmt.Sprintf("    <xhtml:link rel=\"alternate\" hreflang=\"%s\" href=\"%s\" />\n",
			html.EscapeString(alt.Hreflang),
			html.EscapeString(alt.Location)))
	}

	buf.WriteString("  </url>\n")
}

func (r *Renderer) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// renderable reports whether every text field of the entry survives XML
// encoding unchanged. xml.EscapeText silently replaces invalid UTF-8 and
// characters outside the XML range with U+FFFD, which would corrupt the URL
// it is supposed to carry, so such entries are rejected instead.
func renderable(e *sitemap.Entry) error {
	if err := checkText("location", e.Location); err != nil {
		return err
	}
	for _, alt := range e.Alternates {
		if err := checkText("hreflang", alt.Hreflang); err != nil {
			return err
		}
		if err := checkText("alternate location", alt.Location); err != nil {
			return err
		}
	}
	return nil
}

func checkText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s is not valid UTF-8", field)
	}
	for _, r := range s {
		if !xmlChar(r) {
			return fmt.Errorf("%s holds character %U outside the XML range", field, r)
		}
	}
	return nil
}

// xmlChar reports whether r is allowed in XML 1.0 character data.
func xmlChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

func hasAlternates(entries []sitemap.Entry) bool {
	for i := range entries {
		if len(entries[i].Alternates) > 0 {
			return true
		}
	}
	return false
}
