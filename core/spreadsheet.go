package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultExportChunks is the fixed cardinality of the export partition
const DefaultExportChunks = 20

// demographicKeywords is the fixed keyword list matched against the
// description column, lowercased substring containment. Like the regex
// catalog, the published list is product configuration; broad entries such
// as the bare words at the end are intentional.
var demographicKeywords = []string{
	"embossed name", "embossed company name", "primary name", "secondary name",
	"legal name", "dba name", "double byte name", "gender", "dob", "gov ids",
	"home address", "business address", "alternate address", "temporary address",
	"other address", "additional addresses", "home phone", "alternate home phone",
	"business phone", "alternate business phone", "mobile phone", "alternate mobile phone",
	"attorney phone", "fax", "ani phone", "other phone", "additional phone",
	"servicing email", "estatement email", "business email", "other email address",
	"preference language cd", "member since date", "name", "address", "phone", "email",
}

// SpreadsheetRecord is a matched row projection holding only the row's
// non-empty columns
type SpreadsheetRecord map[string]string

// Extraction is the result of classifying one spreadsheet
type Extraction struct {
	// Metadata about the extraction
	ApplicationName string `json:"application_name"`
	ScanTimestamp   string `json:"scan_timestamp"`
	SourceFile      string `json:"source_file"`

	// Column the classification ran against
	DescriptionColumn string `json:"description_column"`

	// Matched row projections, in row order
	Records []SpreadsheetRecord `json:"demographic_data"`

	// Summary counts
	TotalRecords   int `json:"total_records"`
	MatchedRecords int `json:"demographic_fields_found"`
}

// SpreadsheetExtractor classifies tabular records by keyword containment in
// a description column, independent of the regex catalog, and partitions
// matched records into bounded export chunks.
type SpreadsheetExtractor struct {
	appName   string
	keywords  []string
	numChunks int
}

// NewSpreadsheetExtractor creates an extractor with the fixed keyword list
// and the default chunk cardinality
func NewSpreadsheetExtractor(appName string) *SpreadsheetExtractor {
	return &SpreadsheetExtractor{
		appName:   appName,
		keywords:  demographicKeywords,
		numChunks: DefaultExportChunks,
	}
}

// WithChunks overrides the export partition cardinality
func (e *SpreadsheetExtractor) WithChunks(numChunks int) *SpreadsheetExtractor {
	if numChunks > 0 {
		e.numChunks = numChunks
	}
	return e
}

// ExtractCSV reads a CSV file and classifies its rows. A missing description
// column is a fatal ConfigurationError; nothing is partially exported.
func (e *SpreadsheetExtractor) ExtractCSV(path string) (*Extraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, &ConfigurationError{Reason: "spreadsheet has no header row"}
	}

	extraction, err := e.ExtractRecords(rows[0], rows[1:])
	if err != nil {
		return nil, err
	}
	extraction.SourceFile = path
	return extraction, nil
}

// ExtractRecords classifies already-parsed tabular data. A row matches if
// its description is non-empty and, lowercased, contains at least one
// keyword substring. Matched rows retain only their non-empty columns.
func (e *SpreadsheetExtractor) ExtractRecords(header []string, rows [][]string) (*Extraction, error) {
	descIdx, err := resolveDescriptionColumn(header)
	if err != nil {
		return nil, err
	}

	extraction := &Extraction{
		ApplicationName:   e.appName,
		ScanTimestamp:     time.Now().Format("2006-01-02 15:04:05"),
		DescriptionColumn: header[descIdx],
		Records:           []SpreadsheetRecord{},
		TotalRecords:      len(rows),
	}

	for _, row := range rows {
		if descIdx >= len(row) {
			continue
		}
		description := strings.ToLower(row[descIdx])
		if strings.TrimSpace(description) == "" {
			continue
		}

		matched := false
		for _, keyword := range e.keywords {
			if strings.Contains(description, keyword) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		record := make(SpreadsheetRecord)
		for i, column := range header {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				record[column] = row[i]
			}
		}
		extraction.Records = append(extraction.Records, record)
	}

	extraction.MatchedRecords = len(extraction.Records)
	return extraction, nil
}

// resolveDescriptionColumn prefers an exact attr_description column, falls
// back to any column whose name contains description, and otherwise fails
// with a ConfigurationError.
func resolveDescriptionColumn(header []string) (int, error) {
	for i, column := range header {
		if strings.EqualFold(strings.TrimSpace(column), "attr_description") {
			return i, nil
		}
	}
	for i, column := range header {
		if strings.Contains(strings.ToLower(column), "description") {
			return i, nil
		}
	}
	return 0, &ConfigurationError{
		Reason: "no 'attr_description' or 'description' column found in the spreadsheet",
	}
}

// PartitionRecords splits matched records into at most numChunks contiguous
// chunks of ceil(total/numChunks) records each, assigned in order until the
// records are exhausted. Trailing chunks beyond the data are not emitted, so
// fewer than numChunks chunks come back when total < numChunks.
func PartitionRecords(records []SpreadsheetRecord, numChunks int) [][]SpreadsheetRecord {
	if len(records) == 0 || numChunks < 1 {
		return nil
	}

	perChunk := (len(records) + numChunks - 1) / numChunks

	var chunks [][]SpreadsheetRecord
	for start := 0; start < len(records); start += perChunk {
		end := start + perChunk
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}

// ChunkFileName returns the export artifact name for a 1-indexed chunk
func ChunkFileName(appName string, chunkIndex int, timestamp string) string {
	return fmt.Sprintf("%s_demographic_data_%d_%s.csv", appName, chunkIndex, timestamp)
}

// ExportChunks partitions the extraction and writes one CSV file per
// non-empty chunk into dir, named {app}_demographic_data_{i}_{timestamp}.
// Returns the written paths.
func (e *SpreadsheetExtractor) ExportChunks(extraction *Extraction, dir string) ([]string, error) {
	chunks := PartitionRecords(extraction.Records, e.numChunks)
	if len(chunks) == 0 {
		return nil, nil
	}

	timestamp := time.Now().Format("20060102_150405")

	var written []string
	for i, chunk := range chunks {
		path := filepath.Join(dir, ChunkFileName(e.appName, i+1, timestamp))
		if err := writeChunkCSV(path, chunk); err != nil {
			return written, err
		}
		written = append(written, path)

		LogScanEvent("", "chunk_exported", SeverityInfo, map[string]string{
			"path":    path,
			"records": fmt.Sprintf("%d", len(chunk)),
		})
	}
	return written, nil
}

// writeChunkCSV writes one chunk with a header covering the union of the
// chunk's columns, sorted for stable output
func writeChunkCSV(path string, chunk []SpreadsheetRecord) error {
	columnSet := make(map[string]struct{})
	for _, record := range chunk {
		for column := range record {
			columnSet[column] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for column := range columnSet {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, record := range chunk {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = record[column]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
