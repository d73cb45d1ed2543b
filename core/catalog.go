package core

import (
	"path/filepath"
	"sort"
)

// DataCategory classifies a demographic field rule
type DataCategory string

const (
	// CategoryID represents customer and government identifiers
	CategoryID DataCategory = "id"

	// CategoryName represents personal and company name fields
	CategoryName DataCategory = "name"

	// CategoryAddress represents postal address fields
	CategoryAddress DataCategory = "address"

	// CategoryPhone represents phone and fax fields
	CategoryPhone DataCategory = "phone"

	// CategoryEmail represents email address fields
	CategoryEmail DataCategory = "email"

	// CategoryIdentity represents national identity documents
	CategoryIdentity DataCategory = "identity"

	// CategoryDemographics represents personal attributes (gender, dob, ...)
	CategoryDemographics DataCategory = "demographics"
)

// PatternType classifies an integration pattern category
type PatternType string

const (
	// PatternRESTAPI represents REST API usage
	PatternRESTAPI PatternType = "rest_api"

	// PatternSOAP represents SOAP service usage
	PatternSOAP PatternType = "soap_services"

	// PatternDatabase represents database access
	PatternDatabase PatternType = "database"

	// PatternMessaging represents message broker usage
	PatternMessaging PatternType = "messaging"

	// PatternFile represents file I/O integration
	PatternFile PatternType = "file"
)

// FieldHit is a single demographic match produced by the catalog for one line
type FieldHit struct {
	// FieldName is the matched text, verbatim from the line
	FieldName string

	// Category the matching rule belongs to
	Category DataCategory
}

// IntegrationHit is a single integration sub-rule match for one line
type IntegrationHit struct {
	PatternType PatternType
	SubType     string
}

// Catalog is the compiled, immutable pattern registry. It is built once at
// analyzer creation and shared read-only across workers; no per-call
// compilation happens during matching.
type Catalog struct {
	fieldRules       []fieldRule
	integrationRules []integrationRule
	extensions       map[string]string
}

// MatchLine applies every rule in the catalog to a single line of text.
//
// Demographic rules use word-boundary, case-insensitive matching and yield
// one FieldHit per occurrence in the line. Integration rules use search
// semantics: each sub-rule that matches anywhere in the line yields exactly
// one IntegrationHit, regardless of how often it matches. Rules are evaluated
// independently; there is no first-match-wins suppression across categories.
func (c *Catalog) MatchLine(line string) ([]FieldHit, []IntegrationHit) {
	var fields []FieldHit
	for _, rule := range c.fieldRules {
		for _, name := range rule.regex.FindAllString(line, -1) {
			fields = append(fields, FieldHit{FieldName: name, Category: rule.category})
		}
	}

	var integrations []IntegrationHit
	for _, rule := range c.integrationRules {
		if rule.regex.MatchString(line) {
			integrations = append(integrations, IntegrationHit{
				PatternType: rule.patternType,
				SubType:     rule.subType,
			})
		}
	}

	return fields, integrations
}

// SupportsFile reports whether a path's extension is in the allow-list.
// Unsupported files are silently excluded from scanning, not an error.
func (c *Catalog) SupportsFile(path string) bool {
	_, ok := c.extensions[filepath.Ext(path)]
	return ok
}

// Language returns the display language for a supported extension
func (c *Catalog) Language(path string) string {
	return c.extensions[filepath.Ext(path)]
}

// Extensions returns the sorted extension allow-list
func (c *Catalog) Extensions() []string {
	exts := make([]string, 0, len(c.extensions))
	for ext := range c.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// RuleCount returns the number of compiled rules (field rules plus
// integration sub-rules), mostly useful for logging.
func (c *Catalog) RuleCount() int {
	return len(c.fieldRules) + len(c.integrationRules)
}
