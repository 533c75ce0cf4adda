package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTemplate is used when neither the caller nor the profile names one.
const DefaultTemplate = "modern"

// CompanyProfile is a structured business description plus its derived
// text representation and embedding. Profiles are append-only: a newer
// profile for the same business supersedes, never updates, an older one.
type CompanyProfile struct {
	// ID is the store identifier, assigned on storage.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// BusinessName is the company name.
	BusinessName string `json:"businessName" yaml:"businessName" validate:"required"`

	// Industry is the industry sector.
	Industry string `json:"industry" yaml:"industry" validate:"required"`

	// BusinessType is the type of business (e.g., "agency", "retail").
	BusinessType string `json:"businessType,omitempty" yaml:"businessType,omitempty"`

	// TargetAudience describes who the business serves.
	TargetAudience string `json:"targetAudience,omitempty" yaml:"targetAudience,omitempty"`

	// BusinessDescription is free-form text about the business.
	BusinessDescription string `json:"businessDescription,omitempty" yaml:"businessDescription,omitempty"`

	// KeyServices lists the services offered.
	KeyServices []string `json:"keyServices,omitempty" yaml:"keyServices,omitempty" validate:"dive,required"`

	// Template is the chosen website template.
	Template string `json:"template,omitempty" yaml:"template,omitempty"`

	// TextRepresentation is the text the embedding was computed from.
	TextRepresentation string `json:"textRepresentation,omitempty" yaml:"-"`

	// Embedding is the vector for TextRepresentation.
	Embedding []float32 `json:"embedding,omitempty" yaml:"-"`

	// GeneratedContent is the content synthesized for this profile, if any.
	GeneratedContent *GeneratedContent `json:"generatedContent,omitempty" yaml:"-"`

	// VectorEnhanced marks profiles stored by context-aware generation.
	VectorEnhanced bool `json:"vectorEnhanced,omitempty" yaml:"-"`

	// CreatedAt is when the profile was stored.
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"-"`
}

// Text returns the text representation used for embedding:
// name, industry, description and the space-joined service list.
func (p *CompanyProfile) Text() string {
	return fmt.Sprintf("%s %s %s %s",
		p.BusinessName, p.Industry, p.BusinessDescription, strings.Join(p.KeyServices, " "))
}

// SimilarityQuery returns the query used to find comparable profiles.
func (p *CompanyProfile) SimilarityQuery() string {
	return fmt.Sprintf("%s %s %s", p.Industry, p.BusinessType, p.TargetAudience)
}

// BestPracticesQuery returns the query used to find relevant document passages.
func (p *CompanyProfile) BestPracticesQuery() string {
	return fmt.Sprintf("%s %s best practices", p.Industry, p.BusinessType)
}

// ToRecord converts the profile to a store record.
func (p CompanyProfile) ToRecord() (Record, error) {
	body := p
	body.Embedding = nil
	payload, err := encodePayload(body)
	if err != nil {
		return Record{}, fmt.Errorf("encode profile: %w", err)
	}
	return Record{
		ID: p.ID,
		Attributes: map[string]string{
			AttrBusinessName: p.BusinessName,
			AttrIndustry:     p.Industry,
			AttrBusinessType: p.BusinessType,
			AttrTemplate:     p.Template,
		},
		Text:      p.TextRepresentation,
		Embedding: p.Embedding,
		Payload:   payload,
		CreatedAt: p.CreatedAt,
	}, nil
}

// ProfileFromRecord converts a store record back to a profile.
func ProfileFromRecord(r Record) (*CompanyProfile, error) {
	var p CompanyProfile
	if err := decodePayload(r.Payload, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", r.ID, err)
	}
	p.ID = r.ID
	p.TextRepresentation = r.Text
	p.Embedding = r.Embedding
	p.CreatedAt = r.CreatedAt
	return &p, nil
}

// CompanyFilter narrows a company search.
type CompanyFilter struct {
	// Industry restricts results to one industry when set.
	Industry string `json:"industry,omitempty"`

	// BusinessType restricts results to one business type when set.
	BusinessType string `json:"businessType,omitempty"`

	// Limit is the maximum number of results (default 10).
	Limit int `json:"limit,omitempty"`
}

// CompanyMatch is a stored profile with its similarity to a query.
type CompanyMatch struct {
	CompanyProfile
	Similarity float64 `json:"similarity"`
}
