package core

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"codelens/utils"
)

// Occurrence is one concrete line-level instance of a demographic field
type Occurrence struct {
	LineNumber int    `json:"line_number"`
	Snippet    string `json:"code_snippet"`
}

// FieldDetail holds the category and every occurrence of one field name
// within one file. Occurrences are kept in ascending line-number order and
// are concatenated, never replaced, when a file is folded in more than once.
type FieldDetail struct {
	Category    string       `json:"data_type"`
	Occurrences []Occurrence `json:"occurrences"`
}

// ScanMetadata identifies one scan invocation
type ScanMetadata struct {
	ApplicationName string `json:"application_name"`
	ScanTimestamp   string `json:"scan_timestamp"`
	RepositoryPath  string `json:"repository_path"`
}

// FileError records a recoverable per-file failure. The file contributes
// zero matches and is excluded from FilesAnalyzed.
type FileError struct {
	FilePath string `json:"file_path"`
	Message  string `json:"error"`
}

// FieldFrequency is the repository-wide occurrence count of one field name
type FieldFrequency struct {
	FieldName string `json:"field_name"`
	Category  string `json:"data_type"`
	Count     int    `json:"count"`
}

// Report is the canonical aggregate handed to rendering collaborators.
//
// It owns a two-level mapping file -> field -> detail for demographic
// matches, a flat ordered integration list, per-file summaries in scan
// order, and derived totals. The totals are always recomputed from the full
// current state after each fold, never incremented independently, so the
// cross-check invariant (TotalDemographic equals the sum of occurrence-list
// lengths over all files and fields) holds even under partial runs.
type Report struct {
	Metadata ScanMetadata `json:"metadata"`

	Demographic  map[string]map[string]*FieldDetail `json:"demographic_data"`
	Integrations []utils.IntegrationMatch           `json:"integration_patterns"`

	FilesAnalyzed    int                 `json:"files_analyzed"`
	TotalDemographic int                 `json:"demographic_fields_found"`
	TotalIntegration int                 `json:"integration_patterns_found"`
	FileDetails      []utils.FileSummary `json:"file_details"`
	Errors           []FileError         `json:"errors,omitempty"`

	// Materialized by Freeze; sorted for stable comparison
	UniqueFields []string `json:"unique_demographic_fields"`

	uniqueFields map[string]struct{}
}

// NewReport creates an empty report for one scan invocation
func NewReport(meta ScanMetadata) *Report {
	return &Report{
		Metadata:     meta,
		Demographic:  make(map[string]map[string]*FieldDetail),
		Integrations: []utils.IntegrationMatch{},
		FileDetails:  []utils.FileSummary{},
		uniqueFields: make(map[string]struct{}),
	}
}

// NewScanMetadata builds the metadata block for a scan starting now
func NewScanMetadata(appName, repoPath string) ScanMetadata {
	return ScanMetadata{
		ApplicationName: appName,
		ScanTimestamp:   time.Now().Format("2006-01-02 15:04:05"),
		RepositoryPath:  repoPath,
	}
}

// AddFileResult folds one file's matches into the report.
//
// Demographic occurrences are appended under (file, field) with
// insert-or-append semantics; integration matches are appended to the flat
// list without deduplication. A per-file summary with this call's occurrence
// counts is recorded, FilesAnalyzed is advanced, and derived totals are
// recomputed from the full state.
func (r *Report) AddFileResult(path string, fields []utils.FieldMatch, integrations []utils.IntegrationMatch) {
	for _, match := range fields {
		byField, ok := r.Demographic[path]
		if !ok {
			byField = make(map[string]*FieldDetail)
			r.Demographic[path] = byField
		}

		detail, ok := byField[match.FieldName]
		if !ok {
			detail = &FieldDetail{Category: match.Category}
			byField[match.FieldName] = detail
		}
		detail.Occurrences = append(detail.Occurrences, Occurrence{
			LineNumber: match.LineNumber,
			Snippet:    match.Snippet,
		})

		r.uniqueFields[match.FieldName] = struct{}{}
	}

	r.Integrations = append(r.Integrations, integrations...)

	r.FileDetails = append(r.FileDetails, utils.FileSummary{
		FilePath:         path,
		DemographicCount: len(fields),
		IntegrationCount: len(integrations),
	})
	r.FilesAnalyzed++

	r.recompute()
}

// AddFileError records a recoverable per-file failure
func (r *Report) AddFileError(path string, err error) {
	r.Errors = append(r.Errors, FileError{FilePath: path, Message: err.Error()})
}

// Merge folds another report built from a disjoint file set into this one.
//
// File maps are unioned with occurrence concatenation, integration lists and
// file summaries are concatenated, unique-field sets are unioned and totals
// recomputed. The operation is associative and commutative over disjoint
// file sets, so partial reports produced by parallel workers can be reduced
// in any grouping and match the sequential fold.
func (r *Report) Merge(other *Report) {
	for path, otherFields := range other.Demographic {
		byField, ok := r.Demographic[path]
		if !ok {
			byField = make(map[string]*FieldDetail)
			r.Demographic[path] = byField
		}
		for fieldName, otherDetail := range otherFields {
			detail, ok := byField[fieldName]
			if !ok {
				detail = &FieldDetail{Category: otherDetail.Category}
				byField[fieldName] = detail
			}
			detail.Occurrences = append(detail.Occurrences, otherDetail.Occurrences...)
		}
	}

	r.Integrations = append(r.Integrations, other.Integrations...)
	r.FileDetails = append(r.FileDetails, other.FileDetails...)
	r.Errors = append(r.Errors, other.Errors...)
	r.FilesAnalyzed += other.FilesAnalyzed

	for field := range other.uniqueFields {
		r.uniqueFields[field] = struct{}{}
	}

	r.recompute()
}

// recompute derives the totals from the full current state
func (r *Report) recompute() {
	total := 0
	for _, byField := range r.Demographic {
		for _, detail := range byField {
			total += len(detail.Occurrences)
		}
	}
	r.TotalDemographic = total
	r.TotalIntegration = len(r.Integrations)
}

// SortFileDetails orders per-file summaries lexicographically by path.
// Parallel scans call this before Freeze so reported file order does not
// depend on completion time.
func (r *Report) SortFileDetails() {
	sort.Slice(r.FileDetails, func(i, j int) bool {
		return r.FileDetails[i].FilePath < r.FileDetails[j].FilePath
	})
}

// Freeze materializes the unique-field set to a sorted list and recomputes
// the totals one final time. Called when the scan completes.
func (r *Report) Freeze() {
	fields := make([]string, 0, len(r.uniqueFields))
	for field := range r.uniqueFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	r.UniqueFields = fields

	r.recompute()
}

// FieldFrequencies returns repository-wide occurrence counts per field name,
// sorted by descending count then field name
func (r *Report) FieldFrequencies() []FieldFrequency {
	byName := make(map[string]*FieldFrequency)
	for _, byField := range r.Demographic {
		for fieldName, detail := range byField {
			freq, ok := byName[fieldName]
			if !ok {
				freq = &FieldFrequency{FieldName: fieldName, Category: detail.Category}
				byName[fieldName] = freq
			}
			freq.Count += len(detail.Occurrences)
		}
	}

	frequencies := make([]FieldFrequency, 0, len(byName))
	for _, freq := range byName {
		frequencies = append(frequencies, *freq)
	}
	sort.Slice(frequencies, func(i, j int) bool {
		if frequencies[i].Count != frequencies[j].Count {
			return frequencies[i].Count > frequencies[j].Count
		}
		return frequencies[i].FieldName < frequencies[j].FieldName
	})
	return frequencies
}

// WriteJSON serializes the report for rendering collaborators
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
