package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileScanner enumerates eligible source files under a scan root
type FileScanner struct {
	catalog *Catalog
}

// NewFileScanner creates a scanner bound to a catalog's extension allow-list
func NewFileScanner(catalog *Catalog) *FileScanner {
	return &FileScanner{catalog: catalog}
}

// ListFiles walks the root recursively and returns every path whose
// extension is in the allow-list. filepath.WalkDir visits entries in lexical
// order, so the returned sequence is deterministic across runs. Unreadable
// entries below the root are skipped with a logged warning; a missing or
// untraversable root is a fatal ScanFailure.
func (s *FileScanner) ListFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanFailure{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanFailure{Root: root, Err: fmt.Errorf("not a directory")}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return &ScanFailure{Root: root, Err: walkErr}
			}
			// Permission errors and similar on individual entries are recoverable
			LogScanEvent("", "walk_entry_skipped", SeverityWarning, map[string]string{
				"path":  path,
				"error": walkErr.Error(),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if s.catalog.SupportsFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
