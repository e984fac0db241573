package sitemap

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultNamePattern = "sitemap_%d.xml"
	DefaultIndexName   = "sitemapindex.xml"
)

// PageFilename substitutes the 1-based page number n into the name pattern.
func PageFilename(pattern string, n int) (string, error) {
	if err := validatePattern(pattern); err != nil {
		return "", err
	}
	return fmt.Sprintf(pattern, n), nil
}

// PageURLs returns one absolute URL per page, in page order: the 1-based
// page number substituted into the name pattern and joined onto the base
// URL. The result is what the sitemap index references.
func PageURLs(base, pattern string, pageCount int) ([]string, error) {
	if err := validateBaseURL(base); err != nil {
		return nil, err
	}
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}

	urls := make([]string, pageCount)
	for i := 0; i < pageCount; i++ {
		urls[i] = joinURL(base, fmt.Sprintf(pattern, i+1))
	}
	return urls, nil
}

// validatePattern accepts patterns holding exactly one %d verb. Literal %%
// escapes are allowed; any other verb would corrupt every generated
// filename, so the pattern is rejected outright.
func validatePattern(pattern string) error {
	verbs := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		if i+1 >= len(pattern) {
			return &ConfigurationError{Setting: "name pattern", Reason: fmt.Sprintf("incomplete verb at end of %q", pattern)}
		}
		switch pattern[i+1] {
		case '%':
			i++
		case 'd':
			verbs++
			i++
		default:
			return &ConfigurationError{Setting: "name pattern", Reason: fmt.Sprintf("unsupported verb %%%c in %q", pattern[i+1], pattern)}
		}
	}
	if verbs != 1 {
		return &ConfigurationError{Setting: "name pattern", Reason: fmt.Sprintf("want exactly one %%d placeholder in %q, found %d", pattern, verbs)}
	}
	return nil
}

func validateBaseURL(base string) error {
	if base == "" {
		return &ConfigurationError{Setting: "base URL", Reason: "required"}
	}
	u, err := url.Parse(base)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &ConfigurationError{Setting: "base URL", Reason: fmt.Sprintf("%q is not an absolute URL", base)}
	}
	return nil
}

func joinURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/" + name
}
