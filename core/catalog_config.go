package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// CatalogMetadata contains information about the pattern catalog
type CatalogMetadata struct {
	// Version of the catalog
	Version string `yaml:"version"`

	// When the catalog was created
	CreatedAt time.Time `yaml:"created_at"`

	// Last modification time
	UpdatedAt time.Time `yaml:"updated_at"`

	// Description of the catalog
	Description string `yaml:"description"`

	// Author of the catalog
	Author string `yaml:"author"`

	// Hash of the catalog content for integrity verification
	Hash string `yaml:"hash,omitempty"`
}

// FieldPattern is one demographic category rule. The pattern is applied
// per line, case-insensitively, and is expected to carry its own word
// boundaries; every occurrence in a line is a separate match.
type FieldPattern struct {
	Category DataCategory `yaml:"category"`
	Pattern  string       `yaml:"pattern"`

	// Description of the rule
	Description string `yaml:"description,omitempty"`
}

// SubRule is one named rule inside an integration pattern category
type SubRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	// Description of the rule
	Description string `yaml:"description,omitempty"`
}

// IntegrationPattern groups the ordered sub-rules of one integration category
type IntegrationPattern struct {
	PatternType PatternType `yaml:"pattern_type"`
	SubRules    []SubRule   `yaml:"sub_rules"`
}

// CatalogConfig is the on-disk form of the pattern catalog. The published
// field and keyword lists are deliberately treated as external, versioned
// configuration; apparent over-matching (e.g. amount as a name field) is a
// product decision carried in the table, not resolved in code.
type CatalogConfig struct {
	// Metadata about the catalog
	Metadata CatalogMetadata `yaml:"metadata"`

	// Ordered demographic category rules
	DemographicPatterns []FieldPattern `yaml:"demographic_patterns"`

	// Ordered integration pattern categories
	IntegrationPatterns []IntegrationPattern `yaml:"integration_patterns"`

	// Supported source extension allow-list, mapped to display language
	Extensions map[string]string `yaml:"extensions"`
}

// fieldRule is a compiled demographic rule
type fieldRule struct {
	category DataCategory
	regex    *regexp.Regexp
}

// integrationRule is a compiled integration sub-rule
type integrationRule struct {
	patternType PatternType
	subType     string
	regex       *regexp.Regexp
}

// Compile builds the immutable, shareable rule table from the configuration.
// All patterns are compiled once, case-insensitively, in declaration order.
func (cfg *CatalogConfig) Compile() (*Catalog, error) {
	if err := validateCatalog(cfg); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	catalog := &Catalog{
		extensions: make(map[string]string, len(cfg.Extensions)),
	}

	for _, fp := range cfg.DemographicPatterns {
		re, err := regexp.Compile("(?i)" + fp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid demographic pattern '%s': %w", fp.Category, err)
		}
		catalog.fieldRules = append(catalog.fieldRules, fieldRule{
			category: fp.Category,
			regex:    re,
		})
	}

	for _, ip := range cfg.IntegrationPatterns {
		for _, sub := range ip.SubRules {
			re, err := regexp.Compile("(?i)" + sub.Pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid integration pattern '%s/%s': %w", ip.PatternType, sub.Name, err)
			}
			catalog.integrationRules = append(catalog.integrationRules, integrationRule{
				patternType: ip.PatternType,
				subType:     sub.Name,
				regex:       re,
			})
		}
	}

	for ext, lang := range cfg.Extensions {
		catalog.extensions[ext] = lang
	}

	return catalog, nil
}

// LoadCatalogConfig reads a YAML catalog file and unmarshals it
func LoadCatalogConfig(path string) (*CatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := validateCatalog(&cfg); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	// Generate hash for integrity checking
	cfg.Metadata.Hash = calculateCatalogHash(data)

	return &cfg, nil
}

// LoadCatalog reads, validates and compiles a YAML catalog file
func LoadCatalog(path string) (*Catalog, error) {
	cfg, err := LoadCatalogConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Compile()
}

// SaveCatalog saves a catalog configuration to a YAML file
func SaveCatalog(cfg *CatalogConfig, path string) error {
	cfg.Metadata.UpdatedAt = time.Now()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	// Calculate and update the hash for integrity checking
	cfg.Metadata.Hash = calculateCatalogHash(data)

	// Re-marshal with the updated hash
	data, err = yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to re-marshal catalog with hash: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	return nil
}

// validateCatalog checks if a catalog configuration is valid
func validateCatalog(cfg *CatalogConfig) error {
	if len(cfg.DemographicPatterns) == 0 && len(cfg.IntegrationPatterns) == 0 {
		return fmt.Errorf("catalog has no rules")
	}

	for i, fp := range cfg.DemographicPatterns {
		if fp.Category == "" {
			return fmt.Errorf("demographic pattern %d has no category", i)
		}
		if fp.Pattern == "" {
			return fmt.Errorf("demographic pattern %d has no pattern", i)
		}
	}

	for i, ip := range cfg.IntegrationPatterns {
		if ip.PatternType == "" {
			return fmt.Errorf("integration pattern %d has no pattern type", i)
		}
		if len(ip.SubRules) == 0 {
			return fmt.Errorf("integration pattern %d has no sub-rules", i)
		}
		for j, sub := range ip.SubRules {
			if sub.Name == "" {
				return fmt.Errorf("integration pattern %d sub-rule %d has no name", i, j)
			}
			if sub.Pattern == "" {
				return fmt.Errorf("integration pattern %d sub-rule %d has no pattern", i, j)
			}
		}
	}

	return nil
}

// calculateCatalogHash generates a hash of the catalog content for integrity checking
func calculateCatalogHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DefaultCatalogConfig returns the built-in pattern tables. The rule bodies
// mirror config/default_catalog.yaml so the engine works without a config
// file on disk.
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		Metadata: CatalogMetadata{
			Version:     "1.0.0",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
			Description: "Default demographic and integration pattern catalog",
			Author:      "CodeLens",
		},
		DemographicPatterns: []FieldPattern{
			{
				Category: CategoryID,
				Pattern:  `\b(customerId|cm_15|gov_ids?|government_id)\b`,
			},
			{
				Category: CategoryName,
				Pattern:  `\b(embossed_name|embossed_company_name|primary_name|secondary_name|legal_name|dba_name|double_byte_name|first_name|last_name|full_name|name|amount)\b`,
			},
			{
				Category: CategoryAddress,
				Pattern:  `\b(home_address|business_address|alternate_address|temporary_address|other_address|additional_addresses|address|street|city|state|zip|postal_code)\b`,
			},
			{
				Category: CategoryPhone,
				Pattern:  `\b(home_phone|alternate_home_phone|business_phone|alternate_business_phone|mobile_phone|alternate_mobile_phone|attorney_phone|fax|ani_phone|other_phone|additional_phone|phone|contact)\b`,
			},
			{
				Category: CategoryEmail,
				Pattern:  `\b(servicing_email|estatement_email|business_email|other_email_address|email)\b`,
			},
			{
				Category: CategoryIdentity,
				Pattern:  `\b(ssn|social_security|tax_id|passport|gov_ids?|government_id)\b`,
			},
			{
				Category: CategoryDemographics,
				Pattern:  `\b(gender|dob|date_of_birth|age|nationality|ethnicity|preference_language_cd|member_since_date)\b`,
			},
		},
		IntegrationPatterns: []IntegrationPattern{
			{
				PatternType: PatternRESTAPI,
				SubRules: []SubRule{
					{Name: "http_methods", Pattern: `\b(get|post|put|delete|patch)\b.*\b(api|endpoint)\b`},
					{Name: "url_patterns", Pattern: `https?://[^\s<>"]+|www\.[^\s<>"]+`},
					{Name: "api_endpoints", Pattern: `@RequestMapping|@GetMapping|@PostMapping|@PutMapping|@DeleteMapping`},
				},
			},
			{
				PatternType: PatternSOAP,
				SubRules: []SubRule{
					{Name: "soap_components", Pattern: `\b(soap|wsdl|xml)\b`},
					{Name: "wsdl", Pattern: `wsdl|WSDL|\.wsdl|getWSDL|WebService[Client]?`},
					{Name: "soap_operations", Pattern: `SOAPMessage|SOAPEnvelope|SOAPBody|SOAPHeader|SoapClient|SoapBinding`},
					{Name: "xml_namespaces", Pattern: `xmlns[:=]|namespace|schemaLocation`},
					{Name: "soap_annotations", Pattern: `@WebService|@WebMethod|@SOAPBinding|@WebResult|@WebParam`},
					{Name: "soap_endpoints", Pattern: `endpoint[_\s]?url|service[_\s]?url|wsdl[_\s]?url`},
				},
			},
			{
				PatternType: PatternDatabase,
				SubRules: []SubRule{
					{Name: "sql_operations", Pattern: `\b(select|insert|update|delete)\s+from|into\b`},
					{Name: "db_connections", Pattern: `jdbc:|connection[_\s]?string|database[_\s]?url`},
				},
			},
			{
				PatternType: PatternMessaging,
				SubRules: []SubRule{
					{Name: "kafka", Pattern: `kafka|producer|consumer|topic`},
					{Name: "rabbitmq", Pattern: `rabbitmq|amqp`},
					{Name: "jms", Pattern: `jms|queue|topic`},
				},
			},
			{
				PatternType: PatternFile,
				SubRules: []SubRule{
					{Name: "file_operations", Pattern: `\b(csv|excel|xlsx|json|properties).*(read|write|load|save)\b`},
				},
			},
		},
		Extensions: map[string]string{
			".py":   "Python",
			".java": "Java",
			".js":   "JavaScript",
			".ts":   "TypeScript",
			".cs":   "C#",
			".php":  "PHP",
			".rb":   "Ruby",
			".xsd":  "XSD",
		},
	}
}

// DefaultCatalog compiles and returns the built-in catalog
func DefaultCatalog() *Catalog {
	catalog, err := DefaultCatalogConfig().Compile()
	if err != nil {
		// The built-in table is static; a compile failure is a programming error.
		panic(err)
	}
	return catalog
}
