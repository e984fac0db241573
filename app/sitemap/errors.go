package sitemap

import (
	"fmt"
)

// ValidationError reports an entry field that violates the sitemap protocol
// constraints. It is absorbed by Collection.Add: counted and logged, never
// propagated past the add call.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ConfigurationError reports a malformed collection option (base URL, name
// pattern, index name). It invalidates every generated filename, so it is
// surfaced immediately instead of being skipped.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Reason)
}

// PageRangeError reports a page index outside [0, PageCount).
type PageRangeError struct {
	Page      int
	PageCount int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("page index %d out of range [0, %d)", e.Page, e.PageCount)
}
