package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codelens"
	"codelens/core"
)

func main() {
	repoPath := flag.String("repo", "", "path to the code repository to scan")
	excelPath := flag.String("excel", "", "path to a CSV spreadsheet to classify instead of a repository")
	appName := flag.String("app", "app", "application/repository name used in reports and export names")
	catalogPath := flag.String("catalog", "", "optional pattern catalog YAML (default: built-in tables)")
	workers := flag.Int("workers", 1, "number of scan workers (>1 enables the parallel scan)")
	outDir := flag.String("out", ".", "directory for report and export artifacts")
	logLevel := flag.String("log-level", "standard", "scan log verbosity: minimal, standard or verbose")
	flag.Parse()

	if *repoPath == "" && *excelPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: codelens -repo <path> [-app name] | -excel <file.csv> [-app name]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := core.ConfigureScanLogger("code_analysis.log", core.ScanLogLevel(*logLevel), 100*1024*1024, 90, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	if *excelPath != "" {
		runExtraction(*excelPath, *appName, *outDir)
		return
	}

	runScan(*repoPath, *appName, *catalogPath, *workers, *outDir)
}

func runScan(repoPath, appName, catalogPath string, workers int, outDir string) {
	var report *core.Report
	var err error

	switch {
	case catalogPath != "":
		report, err = codelens.ScanRepositoryWithCatalog(repoPath, appName, catalogPath)
	case workers > 1:
		report, err = codelens.ScanRepositoryParallel(repoPath, appName, workers)
	default:
		report, err = codelens.ScanRepository(repoPath, appName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during repository scan: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Files Analyzed: %d\n", report.FilesAnalyzed)
	fmt.Printf("Unique Demographic Fields: %d %v\n", len(report.UniqueFields), report.UniqueFields)
	fmt.Printf("Demographic Occurrences Found: %d\n", report.TotalDemographic)
	fmt.Printf("Integration Patterns Found: %d\n", report.TotalIntegration)
	for _, fileErr := range report.Errors {
		fmt.Printf("Skipped (unreadable): %s\n", fileErr.FilePath)
	}

	reportPath := filepath.Join(outDir, fmt.Sprintf("%s_CodeLens_%s.json", appName, time.Now().Format("20060102_150405")))
	f, err := os.Create(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating report file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := report.WriteJSON(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nAnalysis report generated: %s\n", reportPath)
}

func runExtraction(excelPath, appName, outDir string) {
	extraction, written, err := codelens.ExtractAndExport(excelPath, appName, outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing spreadsheet: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Total Records: %d\n", extraction.TotalRecords)
	fmt.Printf("Demographic Records Found: %d\n", extraction.MatchedRecords)
	fmt.Printf("Description Column: %s\n", extraction.DescriptionColumn)
	for _, path := range written {
		fmt.Printf("Exported demographic data to: %s\n", path)
	}
}
