package core

import "time"

// CatalogBuilder provides a fluent interface for creating pattern catalogs
type CatalogBuilder struct {
	cfg *CatalogConfig
}

// NewCatalogBuilder creates a new catalog builder
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		cfg: &CatalogConfig{
			Metadata: CatalogMetadata{
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			Extensions: map[string]string{},
		},
	}
}

// WithMetadata sets the catalog metadata
func (b *CatalogBuilder) WithMetadata(version, description, author string) *CatalogBuilder {
	b.cfg.Metadata.Version = version
	b.cfg.Metadata.Description = description
	b.cfg.Metadata.Author = author
	return b
}

// AddFieldPattern adds a demographic category rule
func (b *CatalogBuilder) AddFieldPattern(category DataCategory, pattern string) *CatalogBuilder {
	b.cfg.DemographicPatterns = append(b.cfg.DemographicPatterns, FieldPattern{
		Category: category,
		Pattern:  pattern,
	})
	return b
}

// AddIntegrationPattern adds a sub-rule under an integration category,
// creating the category in declaration order on first use
func (b *CatalogBuilder) AddIntegrationPattern(patternType PatternType, subType, pattern string) *CatalogBuilder {
	sub := SubRule{Name: subType, Pattern: pattern}

	for i := range b.cfg.IntegrationPatterns {
		if b.cfg.IntegrationPatterns[i].PatternType == patternType {
			b.cfg.IntegrationPatterns[i].SubRules = append(b.cfg.IntegrationPatterns[i].SubRules, sub)
			return b
		}
	}

	b.cfg.IntegrationPatterns = append(b.cfg.IntegrationPatterns, IntegrationPattern{
		PatternType: patternType,
		SubRules:    []SubRule{sub},
	})
	return b
}

// WithExtension adds a supported source extension
func (b *CatalogBuilder) WithExtension(ext, language string) *CatalogBuilder {
	b.cfg.Extensions[ext] = language
	return b
}

// BuildConfig constructs and returns the final catalog configuration
func (b *CatalogBuilder) BuildConfig() *CatalogConfig {
	b.cfg.Metadata.UpdatedAt = time.Now()
	return b.cfg
}

// Build compiles and returns the catalog
func (b *CatalogBuilder) Build() (*Catalog, error) {
	return b.BuildConfig().Compile()
}
