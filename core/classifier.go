package core

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"codelens/utils"
)

// LineClassifier applies the catalog to a file's content line by line
type LineClassifier struct {
	catalog *Catalog
}

// NewLineClassifier creates a classifier for the given catalog
func NewLineClassifier(catalog *Catalog) *LineClassifier {
	return &LineClassifier{catalog: catalog}
}

// ClassifyFile reads one file and returns every demographic and integration
// match it contains. Read and decode failures are reported as a recoverable
// FileAccessError; the caller records the error and the file contributes
// zero matches.
func (c *LineClassifier) ClassifyFile(path string) ([]utils.FieldMatch, []utils.IntegrationMatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &FileAccessError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, nil, &FileAccessError{Path: path, Err: fmt.Errorf("content is not valid UTF-8")}
	}

	fields, integrations := c.ClassifyContent(path, string(data))
	return fields, integrations, nil
}

// ClassifyContent classifies already-loaded file content. Lines are
// 1-indexed; a leading byte order mark is treated as not part of content.
func (c *LineClassifier) ClassifyContent(path, content string) ([]utils.FieldMatch, []utils.IntegrationMatch) {
	content = strings.TrimPrefix(content, "\uFEFF")

	var fields []utils.FieldMatch
	var integrations []utils.IntegrationMatch

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		lineNumber := i + 1
		snippet := strings.TrimSpace(line)

		fieldHits, integrationHits := c.catalog.MatchLine(line)

		for _, hit := range fieldHits {
			fields = append(fields, utils.FieldMatch{
				FieldName:  hit.FieldName,
				Category:   string(hit.Category),
				FilePath:   path,
				LineNumber: lineNumber,
				Snippet:    snippet,
			})
		}

		for _, hit := range integrationHits {
			integrations = append(integrations, utils.IntegrationMatch{
				PatternType: string(hit.PatternType),
				SubType:     hit.SubType,
				FilePath:    path,
				LineNumber:  lineNumber,
				Snippet:     snippet,
			})
		}
	}

	return fields, integrations
}
