package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/okhmat/sitemap-mill/app/sitemap"
)

// SQLiteSource emits one entry per row of a read-only query against a
// SQLite database. The query must return a loc column; lastmod, changefreq,
// and priority columns are picked up when present, any other column is
// ignored. A malformed optional value is dropped from its entry, never the
// row.
type SQLiteSource struct {
	name     string
	path     string
	query    string
	settings ManifestSettings
}

var _ SourceInterface = (*SQLiteSource)(nil)

func NewSQLiteSource(name string, opts SQLiteOptions, settings ManifestSettings) *SQLiteSource {
	return &SQLiteSource{
		name:     name,
		path:     opts.Path,
		query:    opts.Query,
		settings: settings,
	}
}

func (s *SQLiteSource) Name() string {
	return s.name
}

func (s *SQLiteSource) Emit(ctx context.Context, c *sitemap.Collection) error {
	// mode=ro keeps the database untouched and fails on a missing file
	// instead of creating an empty one.
	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	rows, err := db.QueryContext(ctx, s.query)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read result columns: %w", err)
	}

	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		entry := s.rowEntry(columns, values)
		applyDefaults(&entry, s.settings)

		c.AddEntry(entry)
	}

	return rows.Err()
}

func (s *SQLiteSource) rowEntry(columns []string, values []sql.NullString) sitemap.Entry {
	var entry sitemap.Entry

	for i, column := range columns {
		if !values[i].Valid {
			continue
		}
		value := values[i].String

		switch strings.ToLower(column) {
		case "loc", "location", "url":
			entry.Location = value
		case "lastmod":
			lastMod, err := parseTime(value)
			if err != nil {
				slog.Warn("Row lastmod dropped", "source", s.name, "value", value, "error", err)
				continue
			}
			entry.LastMod = lastMod
		case "changefreq":
			entry.ChangeFreq = sitemap.ChangeFreq(value)
		case "priority":
			priority, err := strconv.ParseFloat(value, 64)
			if err != nil {
				slog.Warn("Row priority dropped", "source", s.name, "value", value, "error", err)
				continue
			}
			entry.Priority = &priority
		}
	}

	return entry
}
