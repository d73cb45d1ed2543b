package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"customer.java": "class Customer {\n" +
			"  String home_address;\n" +
			"  String email;\n" +
			"  String email_backup; // not a field token\n" +
			"}\n",
		"api/handler.py": "import requests\n" +
			"url = 'https://api.example.com/users'\n" +
			"ssn = row['ssn']\n",
		"notes.txt": "email home_address ssn -- unsupported extension, never scanned\n",
	})
	return root
}

// TestScanRepositorySequential runs the single-pass scan over a small
// fixture tree and checks the frozen report
func TestScanRepositorySequential(t *testing.T) {
	root := fixtureRepo(t)

	report, err := NewAnalyzer(root, "demo", nil).ScanRepository()
	assert.NoError(t, err)

	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Equal(t, "demo", report.Metadata.ApplicationName)
	assert.Equal(t, root, report.Metadata.RepositoryPath)

	// email_backup is not a field token under the word-boundary rule, so
	// the unique set is exactly these three
	assert.Equal(t, []string{"email", "home_address", "ssn"}, report.UniqueFields)

	// ssn appears twice on its line in handler.py
	assert.Equal(t, 4, report.TotalDemographic)

	javaPath := filepath.Join(root, "customer.java")
	assert.Len(t, report.Demographic[javaPath]["home_address"].Occurrences, 1)
	assert.Equal(t, 2, report.Demographic[javaPath]["home_address"].Occurrences[0].LineNumber)

	var sawURL bool
	for _, match := range report.Integrations {
		if match.SubType == "url_patterns" {
			sawURL = true
			assert.Equal(t, filepath.Join(root, "api", "handler.py"), match.FilePath)
		}
	}
	assert.True(t, sawURL)

	// Summaries are recorded in lexical scan order
	assert.Len(t, report.FileDetails, 2)
	assert.Equal(t, filepath.Join(root, "api", "handler.py"), report.FileDetails[0].FilePath)
	assert.Equal(t, javaPath, report.FileDetails[1].FilePath)
}

// TestParallelScanMatchesSequential verifies the fork-join scan reduces to
// the same report as the sequential fold
func TestParallelScanMatchesSequential(t *testing.T) {
	root := fixtureRepo(t)
	analyzer := NewAnalyzer(root, "demo", nil)

	sequential, err := analyzer.ScanRepository()
	assert.NoError(t, err)

	for _, workers := range []int{1, 2, 8} {
		parallel, err := analyzer.ScanRepositoryParallel(workers)
		assert.NoError(t, err)

		assert.Equal(t, sequential.FilesAnalyzed, parallel.FilesAnalyzed)
		assert.Equal(t, sequential.TotalDemographic, parallel.TotalDemographic)
		assert.Equal(t, sequential.TotalIntegration, parallel.TotalIntegration)
		assert.Equal(t, sequential.UniqueFields, parallel.UniqueFields)
		assert.Equal(t, sequential.Demographic, parallel.Demographic)
		assert.Equal(t, sequential.FileDetails, parallel.FileDetails)
		assert.ElementsMatch(t, sequential.Integrations, parallel.Integrations)
	}
}

// TestScanContinuesPastUnreadableFile verifies that an undecodable file is
// recorded as a recoverable error without stopping the scan
func TestScanContinuesPastUnreadableFile(t *testing.T) {
	root := fixtureRepo(t)
	broken := filepath.Join(root, "broken.java")
	assert.NoError(t, os.WriteFile(broken, []byte{0xff, 0xfe, 0x00}, 0644))

	report, err := NewAnalyzer(root, "demo", nil).ScanRepository()
	assert.NoError(t, err)

	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, broken, report.Errors[0].FilePath)
	assert.NotContains(t, report.Demographic, broken)
}

// TestScanMissingRootFails verifies fatal propagation with context
func TestScanMissingRootFails(t *testing.T) {
	analyzer := NewAnalyzer(filepath.Join(t.TempDir(), "gone"), "demo", nil)

	_, err := analyzer.ScanRepository()
	assert.Error(t, err)

	var failure *ScanFailure
	assert.True(t, errors.As(err, &failure))
	assert.Contains(t, failure.Root, "gone")
}
