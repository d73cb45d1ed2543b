package codelens

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"codelens/core"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "codelens-test")
	if err != nil {
		os.Exit(1)
	}
	core.ConfigureScanLogger(filepath.Join(dir, "scan.log"), core.ScanLogLevelMinimal, 1<<20, 1, false)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// TestBasicRepositoryScan demonstrates the most common usage pattern of the
// SDK: point ScanRepository at a source tree and read the frozen report
func TestBasicRepositoryScan(t *testing.T) {
	root := t.TempDir()
	source := "public class Account {\n" +
		"  private String home_address;\n" +
		"  private String servicing_email;\n" +
		"  @GetMapping(\"/api/accounts\")\n" +
		"  public Account load() { return dao.query(\"select a from accounts\"); }\n" +
		"}\n"
	err := os.WriteFile(filepath.Join(root, "Account.java"), []byte(source), 0644)
	assert.NoError(t, err)

	report, err := ScanRepository(root, "banking")
	assert.NoError(t, err)

	assert.Equal(t, 1, report.FilesAnalyzed)
	assert.Contains(t, report.UniqueFields, "home_address")
	assert.Contains(t, report.UniqueFields, "servicing_email")
	assert.NotZero(t, report.TotalIntegration)

	var sawEndpoint bool
	for _, match := range report.Integrations {
		if match.PatternType == "rest_api" && match.SubType == "api_endpoints" {
			sawEndpoint = true
			assert.Equal(t, 4, match.LineNumber)
		}
	}
	assert.True(t, sawEndpoint)

	// Since this is a demo, we print the summary for better visibility
	fmt.Printf("Files: %d, unique fields: %v, integrations: %d\n",
		report.FilesAnalyzed, report.UniqueFields, report.TotalIntegration)
}

// TestScanWithCustomCatalog loads a pattern catalog from YAML and scans
// with it instead of the built-in tables
func TestScanWithCustomCatalog(t *testing.T) {
	cfg := core.NewCatalogBuilder().
		WithMetadata("0.1.0", "Narrow test catalog", "Test Author").
		AddFieldPattern(core.CategoryPhone, `\b(telefono)\b`).
		AddIntegrationPattern(core.PatternMessaging, "kafka", `kafka`).
		WithExtension(".py", "Python").
		BuildConfig()

	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	assert.NoError(t, core.SaveCatalog(cfg, catalogPath))

	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "app.py"),
		[]byte("telefono = '555'\nemail = 'ignored by this catalog'\n"), 0644)
	assert.NoError(t, err)

	report, err := ScanRepositoryWithCatalog(root, "demo", catalogPath)
	assert.NoError(t, err)
	assert.Equal(t, []string{"telefono"}, report.UniqueFields)
}

// TestParallelScan runs the worker-pool scan through the package API
func TestParallelScan(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		err := os.WriteFile(filepath.Join(root, fmt.Sprintf("f%02d.py", i)),
			[]byte(fmt.Sprintf("dob_%d = 1\ndob = 2\n", i)), 0644)
		assert.NoError(t, err)
	}

	report, err := ScanRepositoryParallel(root, "demo", 4)
	assert.NoError(t, err)
	assert.Equal(t, 10, report.FilesAnalyzed)
	assert.Equal(t, []string{"dob"}, report.UniqueFields)
	assert.Equal(t, 10, report.TotalDemographic)

	// Reported file order is stable regardless of completion order
	for i := 0; i < 10; i++ {
		assert.Equal(t, filepath.Join(root, fmt.Sprintf("f%02d.py", i)), report.FileDetails[i].FilePath)
	}
}

// TestSpreadsheetExtractionAndExport runs the spreadsheet path end to end
func TestSpreadsheetExtractionAndExport(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "attrs.csv")
	csvData := "attr_id,attr_description\n" +
		"1,Primary Name of cardholder\n" +
		"2,posting ledger code\n" +
		"3,Business Email address\n"
	assert.NoError(t, os.WriteFile(csvPath, []byte(csvData), 0644))

	outDir := t.TempDir()
	extraction, written, err := ExtractAndExport(csvPath, "demo", outDir)
	assert.NoError(t, err)
	assert.Equal(t, 3, extraction.TotalRecords)
	assert.Equal(t, 2, extraction.MatchedRecords)

	// 2 matched records with N=20 fit in ceil(2/20)=1 record per chunk,
	// so exactly two physical exports come back
	assert.Len(t, written, 2)
	for _, path := range written {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}
