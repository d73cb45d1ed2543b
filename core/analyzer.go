package core

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Analyzer ties the catalog, scanner and classifier together for one
// repository. The catalog is built once at creation and shared read-only
// across scan invocations and workers.
type Analyzer struct {
	appName    string
	rootPath   string
	catalog    *Catalog
	scanner    *FileScanner
	classifier *LineClassifier
}

// NewAnalyzer creates an analyzer for a repository root. A nil catalog
// selects the built-in default tables.
func NewAnalyzer(rootPath, appName string, catalog *Catalog) *Analyzer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Analyzer{
		appName:    appName,
		rootPath:   rootPath,
		catalog:    catalog,
		scanner:    NewFileScanner(catalog),
		classifier: NewLineClassifier(catalog),
	}
}

// Catalog returns the analyzer's compiled pattern catalog
func (a *Analyzer) Catalog() *Catalog {
	return a.catalog
}

// ScanRepository performs a sequential single-pass scan and returns the
// frozen report. Per-file failures are recorded and skipped; only an
// untraversable root aborts the scan.
func (a *Analyzer) ScanRepository() (*Report, error) {
	scanID := newScanID()
	report := NewReport(NewScanMetadata(a.appName, a.rootPath))

	files, err := a.scanner.ListFiles(a.rootPath)
	if err != nil {
		LogScanEvent(scanID, "scan_failed", SeverityError, map[string]string{
			"root":  a.rootPath,
			"error": err.Error(),
		})
		return nil, err
	}

	LogScanEvent(scanID, "scan_started", SeverityInfo, map[string]string{
		"root":       a.rootPath,
		"app_name":   a.appName,
		"file_count": fmt.Sprintf("%d", len(files)),
		"rule_count": fmt.Sprintf("%d", a.catalog.RuleCount()),
	})

	for _, path := range files {
		a.analyzeInto(report, scanID, path)
	}

	report.Freeze()

	LogScanEvent(scanID, "scan_completed", SeverityInfo, map[string]string{
		"files_analyzed":       fmt.Sprintf("%d", report.FilesAnalyzed),
		"demographic_found":    fmt.Sprintf("%d", report.TotalDemographic),
		"integration_found":    fmt.Sprintf("%d", report.TotalIntegration),
		"unique_fields":        fmt.Sprintf("%d", len(report.UniqueFields)),
		"recoverable_failures": fmt.Sprintf("%d", len(report.Errors)),
	})

	return report, nil
}

// ScanRepositoryParallel partitions the file list across a worker pool.
// Each worker folds its files into a private partial report, so
// classification needs no shared mutable state; the partials are merged by
// a single reducer and per-file summaries are sorted by path afterwards so
// reported order does not depend on completion time.
func (a *Analyzer) ScanRepositoryParallel(workers int) (*Report, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	scanID := newScanID()
	files, err := a.scanner.ListFiles(a.rootPath)
	if err != nil {
		LogScanEvent(scanID, "scan_failed", SeverityError, map[string]string{
			"root":  a.rootPath,
			"error": err.Error(),
		})
		return nil, err
	}

	LogScanEvent(scanID, "scan_started", SeverityInfo, map[string]string{
		"root":       a.rootPath,
		"app_name":   a.appName,
		"file_count": fmt.Sprintf("%d", len(files)),
		"workers":    fmt.Sprintf("%d", workers),
	})

	jobs := make(chan string)
	partials := make(chan *Report, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			partial := NewReport(ScanMetadata{})
			for path := range jobs {
				a.analyzeInto(partial, scanID, path)
			}
			partials <- partial
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(partials)

	report := NewReport(NewScanMetadata(a.appName, a.rootPath))
	for partial := range partials {
		report.Merge(partial)
	}

	report.SortFileDetails()
	report.Freeze()

	LogScanEvent(scanID, "scan_completed", SeverityInfo, map[string]string{
		"files_analyzed":       fmt.Sprintf("%d", report.FilesAnalyzed),
		"demographic_found":    fmt.Sprintf("%d", report.TotalDemographic),
		"integration_found":    fmt.Sprintf("%d", report.TotalIntegration),
		"recoverable_failures": fmt.Sprintf("%d", len(report.Errors)),
	})

	return report, nil
}

// analyzeInto classifies one file and folds the result into the report
func (a *Analyzer) analyzeInto(report *Report, scanID, path string) {
	LogScanEvent(scanID, "file_analyzed", SeverityInfo, map[string]string{
		"path":     path,
		"language": a.catalog.Language(path),
	})

	fields, integrations, err := a.classifier.ClassifyFile(path)
	if err != nil {
		LogScanEvent(scanID, "file_skipped", SeverityWarning, map[string]string{
			"path":  path,
			"error": err.Error(),
		})
		report.AddFileError(path, err)
		return
	}

	report.AddFileResult(path, fields, integrations)
}

// newScanID generates a timestamp-derived identifier for log correlation
func newScanID() string {
	return fmt.Sprintf("%d-%x", time.Now().UnixNano(), time.Now().Nanosecond())
}
