package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/studykit/internal/docstore"
)

// ReadFile loads a local document for upload. Files larger than maxBytes
// are rejected with docstore.ErrTooLarge before being read; maxBytes <= 0
// uses the docstore default.
func ReadFile(path string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = docstore.DefaultConfig().MaxBytes
	}
	path = ExpandPath(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d MB", docstore.ErrTooLarge, info.Size(), maxBytes>>20)
	}

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: exceeds %d MB", docstore.ErrTooLarge, maxBytes>>20)
	}
	return data, nil
}

// ExpandPath trims whitespace and surrounding quotes and expands a leading ~.
func ExpandPath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
