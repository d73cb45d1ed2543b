package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// TestListFilesFiltersAndRecurses verifies the allow-list filter and
// recursive traversal
func TestListFilesFiltersAndRecurses(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.py":            "x = 1\n",
		"src/Service.java":   "class Service {}\n",
		"src/deep/schema.rb": "schema\n",
		"README.md":          "docs\n",
		"assets/logo.png":    "binary\n",
	})

	scanner := NewFileScanner(DefaultCatalog())
	files, err := scanner.ListFiles(root)
	assert.NoError(t, err)

	expected := []string{
		filepath.Join(root, "main.py"),
		filepath.Join(root, "src", "Service.java"),
		filepath.Join(root, "src", "deep", "schema.rb"),
	}
	assert.ElementsMatch(t, expected, files)
}

// TestListFilesDeterministicOrder verifies the lexical walk order is stable
// across runs
func TestListFilesDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"z.py":     "",
		"a.py":     "",
		"m/b.java": "",
		"m/a.java": "",
	})

	scanner := NewFileScanner(DefaultCatalog())
	first, err := scanner.ListFiles(root)
	assert.NoError(t, err)
	second, err := scanner.ListFiles(root)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "m", "a.java"),
		filepath.Join(root, "m", "b.java"),
		filepath.Join(root, "z.py"),
	}, first)
}

// TestListFilesMissingRoot verifies that an untraversable root is a fatal
// ScanFailure
func TestListFilesMissingRoot(t *testing.T) {
	scanner := NewFileScanner(DefaultCatalog())

	_, err := scanner.ListFiles(filepath.Join(t.TempDir(), "nowhere"))
	assert.Error(t, err)

	var failure *ScanFailure
	assert.True(t, errors.As(err, &failure))
	assert.False(t, IsRecoverable(err))
}

// TestListFilesRootIsFile verifies a non-directory root is rejected
func TestListFilesRootIsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.py")
	assert.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	scanner := NewFileScanner(DefaultCatalog())
	_, err := scanner.ListFiles(path)

	var failure *ScanFailure
	assert.True(t, errors.As(err, &failure))
}
