package utils

// FieldMatch represents one occurrence of a demographic data field found in a
// source line. Many FieldMatch values may share FieldName within and across
// files; each value is one concrete line-level occurrence.
type FieldMatch struct {
	// Matched field text, verbatim from the source line
	FieldName string `json:"field_name"`

	// Demographic category the field belongs to (id, name, address, ...)
	Category string `json:"data_type"`

	// Location information
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`

	// Trimmed source line the match was found on
	Snippet string `json:"code_snippet"`
}

// IntegrationMatch represents a detected integration pattern usage. A single
// line may produce several IntegrationMatch values, one per sub-rule that
// matched; matches are never deduplicated.
type IntegrationMatch struct {
	// Pattern category (rest_api, soap_services, database, messaging, file)
	PatternType string `json:"pattern_type"`

	// Named sub-rule within the category that matched
	SubType string `json:"sub_type"`

	// Location information
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`

	// Trimmed source line the match was found on
	Snippet string `json:"code_snippet"`
}

// FileSummary holds per-file occurrence counts, recorded once per analyzed
// file in scan order. Counts are occurrences, not unique field names.
type FileSummary struct {
	FilePath         string `json:"file_path"`
	DemographicCount int    `json:"demographic_fields_found"`
	IntegrationCount int    `json:"integration_patterns_found"`
}
