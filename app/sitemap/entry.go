package sitemap

import (
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// ChangeFreq is the optional change frequency hint of a sitemap entry.
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// Valid reports whether f is one of the values the sitemap protocol accepts.
func (f ChangeFreq) Valid() bool {
	switch f {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// Alternate is a localized variant of an entry, rendered as an
// xhtml:link rel="alternate" element. Hreflang is a BCP 47 language tag or
// the protocol's "x-default" marker.
type Alternate struct {
	Hreflang string
	Location string
}

// Entry is a single sitemap location record. Location is required and must
// be an absolute URI; the remaining fields are optional. Entries are value
// types: once added to a Collection they must not be mutated.
type Entry struct {
	Location   string
	LastMod    *time.Time
	ChangeFreq ChangeFreq
	Priority   *float64
	Alternates []Alternate
}

// NewEntry constructs a validated Entry from a bare location.
func NewEntry(location string) (Entry, error) {
	e := Entry{Location: location}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks every field of the entry against the sitemap protocol
// constraints and returns a *ValidationError describing the first violation.
func (e *Entry) Validate() error {
	if err := validateLocation("location", e.Location); err != nil {
		return err
	}

	if e.ChangeFreq != "" && !e.ChangeFreq.Valid() {
		return &ValidationError{Field: "changefreq", Value: string(e.ChangeFreq), Reason: "not a recognized change frequency"}
	}

	// Negated form so that NaN, which fails every comparison, is rejected.
	if e.Priority != nil && !(*e.Priority >= 0.0 && *e.Priority <= 1.0) {
		return &ValidationError{Field: "priority", Value: formatPriority(*e.Priority), Reason: "must be within [0.0, 1.0]"}
	}

	for _, alt := range e.Alternates {
		if err := validateHreflang(alt.Hreflang); err != nil {
			return err
		}
		if err := validateLocation("alternate location", alt.Location); err != nil {
			return err
		}
	}

	return nil
}

func validateLocation(field, location string) error {
	if location == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}

	u, err := url.Parse(location)
	if err != nil {
		return &ValidationError{Field: field, Value: location, Reason: "not a valid URI"}
	}
	if !u.IsAbs() || u.Host == "" {
		return &ValidationError{Field: field, Value: location, Reason: "must be an absolute URI"}
	}

	return nil
}

func formatPriority(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func validateHreflang(tag string) error {
	if tag == "" {
		return &ValidationError{Field: "hreflang", Reason: "required"}
	}
	// "x-default" marks the fallback variant in the sitemap protocol.
	if tag == "x-default" {
		return nil
	}
	if _, err := language.Parse(tag); err != nil {
		return &ValidationError{Field: "hreflang", Value: tag, Reason: "not a valid BCP 47 language tag"}
	}
	return nil
}
