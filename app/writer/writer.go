package writer

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists rendered documents under a single output directory.
// With compression enabled the payload is gzipped on the way out; callers
// are expected to hand in filenames that already carry the .gz suffix so
// that index references and files on disk agree.
type Writer struct {
	dir      string
	compress bool
}

func NewWriter(dir string, compress bool) *Writer {
	return &Writer{
		dir:      dir,
		compress: compress,
	}
}

// Write stores data under name inside the output directory, creating any
// missing parent directories, and returns the path written.
func (w *Writer) Write(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if !w.compress {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
		return path, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		file.Close()
		return "", fmt.Errorf("failed to compress %s: %w", name, err)
	}
	if err := gz.Close(); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to compress %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	return path, nil
}
