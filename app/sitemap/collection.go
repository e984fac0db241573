package sitemap

import (
	"log/slog"
)

// Options is the configuration surface of a Collection, carried as an
// explicit value rather than global state. BaseURL is the absolute URL
// prefix under which generated files are referenced from the index.
// NamePattern derives each page's filename from its 1-based page number and
// must hold exactly one %d placeholder. IndexName is the fixed filename of
// the sitemap index document.
type Options struct {
	BaseURL     string
	NamePattern string
	IndexName   string
}

func (o Options) withDefaults() Options {
	if o.NamePattern == "" {
		o.NamePattern = DefaultNamePattern
	}
	if o.IndexName == "" {
		o.IndexName = DefaultIndexName
	}
	return o
}

func (o Options) validate() error {
	if err := validateBaseURL(o.BaseURL); err != nil {
		return err
	}
	if err := validatePattern(o.NamePattern); err != nil {
		return err
	}
	if o.IndexName == "" {
		return &ConfigurationError{Setting: "index name", Reason: "required"}
	}
	return nil
}

// Collection is an append-only, order-preserving container of validated
// entries. Insertion order deterministically maps to page assignment. The
// intended lifecycle is build-then-read: populate it with sequential Add
// calls, then derive pages and index references; a collection that is no
// longer written to is safe for concurrent reads.
type Collection struct {
	opts    Options
	entries []Entry
	failed  int
}

// NewCollection validates opts eagerly and returns an empty collection.
// Missing NamePattern and IndexName fall back to the conventional defaults.
func NewCollection(opts Options) (*Collection, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Collection{opts: opts}, nil
}

// Add attempts to append an entry holding only a location. See AddEntry.
func (c *Collection) Add(location string) error {
	return c.AddEntry(Entry{Location: location})
}

// AddEntry validates e and appends it in call order. A failing entry is
// counted, logged with its contents and the reason, and reported through the
// returned error. It never aborts the batch: bulk callers may ignore the
// result and inspect Failed afterwards.
func (c *Collection) AddEntry(e Entry) error {
	if err := e.Validate(); err != nil {
		c.failed++
		slog.Warn("Entry rejected",
			"location", e.Location,
			"changefreq", string(e.ChangeFreq),
			"error", err)
		return err
	}

	c.entries = append(c.entries, e)
	return nil
}

// Len returns the number of successfully added entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Failed returns how many add attempts were rejected. Together with Len it
// accounts for every add call: Failed() + Len() equals the attempt count.
func (c *Collection) Failed() int {
	return c.failed
}

// Entries returns the full entry sequence in insertion order. The slice is
// a view into the collection and must not be modified.
func (c *Collection) Entries() []Entry {
	return c.entries
}

// PageCount returns how many sitemap pages the collection occupies.
func (c *Collection) PageCount() int {
	return PageCount(len(c.entries))
}

// Page returns the entries assigned to the 0-based page index, in insertion
// order. The slice is a view into the collection and must not be modified.
func (c *Collection) Page(i int) ([]Entry, error) {
	lo, hi, err := PageBounds(len(c.entries), i)
	if err != nil {
		return nil, err
	}
	return c.entries[lo:hi], nil
}

// PageFilename returns the filename of the 0-based page index, derived by
// substituting the 1-based page number into the name pattern.
func (c *Collection) PageFilename(i int) (string, error) {
	if i < 0 || i >= c.PageCount() {
		return "", &PageRangeError{Page: i, PageCount: c.PageCount()}
	}
	return PageFilename(c.opts.NamePattern, i+1)
}

// PageURLs returns the absolute URL of every page in page order, ready to be
// referenced from the sitemap index.
func (c *Collection) PageURLs() ([]string, error) {
	return PageURLs(c.opts.BaseURL, c.opts.NamePattern, c.PageCount())
}

// BaseURL returns the configured absolute URL prefix.
func (c *Collection) BaseURL() string {
	return c.opts.BaseURL
}

// IndexName returns the configured filename of the sitemap index document.
func (c *Collection) IndexName() string {
	return c.opts.IndexName
}
