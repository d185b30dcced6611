package persistence

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"
)

// LedgerFiles gives the report pipelines access to ledger inputs and report
// outputs below a root directory. Names are slash separated and relative to root.
type LedgerFiles struct {
	root string
}

// NewLedgerFiles roots file access at dir.
func NewLedgerFiles(dir string) *LedgerFiles {
	return &LedgerFiles{root: dir}
}

// List returns the regular file names in dir, sorted.
func (f *LedgerFiles) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(f.path(dir))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Open opens name for reading.
func (f *LedgerFiles) Open(name string) (io.ReadCloser, error) {
	return os.Open(f.path(name))
}

// Write replaces name with data. Readers see either the old or the new content.
func (f *LedgerFiles) Write(name string, data []byte) error {
	path := f.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(name), err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	// atomic.WriteFile keeps the temp file's 0600 mode on new files.
	return os.Chmod(path, 0o644)
}

func (f *LedgerFiles) path(name string) string {
	return filepath.Join(f.root, filepath.FromSlash(name))
}
