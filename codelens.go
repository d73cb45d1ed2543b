package codelens

import (
	"fmt"

	"codelens/core"
)

// ScanRepository runs a full sequential source scan with the built-in
// pattern catalog and returns the frozen report
func ScanRepository(rootPath, appName string) (*core.Report, error) {
	analyzer := core.NewAnalyzer(rootPath, appName, nil)
	return analyzer.ScanRepository()
}

// ScanRepositoryParallel runs the scan across a worker pool. workers < 1
// selects one worker per CPU.
func ScanRepositoryParallel(rootPath, appName string, workers int) (*core.Report, error) {
	analyzer := core.NewAnalyzer(rootPath, appName, nil)
	return analyzer.ScanRepositoryParallel(workers)
}

// ScanRepositoryWithCatalog runs the scan with a pattern catalog loaded from
// a YAML configuration file
func ScanRepositoryWithCatalog(rootPath, appName, catalogPath string) (*core.Report, error) {
	catalog, err := core.LoadCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	analyzer := core.NewAnalyzer(rootPath, appName, catalog)
	return analyzer.ScanRepository()
}

// ExtractSpreadsheet classifies a CSV table's rows against the fixed
// demographic keyword list
func ExtractSpreadsheet(csvPath, appName string) (*core.Extraction, error) {
	extractor := core.NewSpreadsheetExtractor(appName)
	return extractor.ExtractCSV(csvPath)
}

// ExtractAndExport classifies a CSV table and writes the matched records as
// partitioned chunk files into outDir, returning the extraction and the
// written paths
func ExtractAndExport(csvPath, appName, outDir string) (*core.Extraction, []string, error) {
	extractor := core.NewSpreadsheetExtractor(appName)

	extraction, err := extractor.ExtractCSV(csvPath)
	if err != nil {
		return nil, nil, err
	}

	written, err := extractor.ExportChunks(extraction, outDir)
	if err != nil {
		return extraction, written, fmt.Errorf("failed to export chunks: %w", err)
	}

	return extraction, written, nil
}
