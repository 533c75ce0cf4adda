package domain

import (
	"fmt"
	"time"
)

// Insight list sizes.
const (
	TopServicesLimit      = 10
	PopularTemplatesLimit = 5
	BusinessTypesLimit    = 8
)

// InsightsTTL is how long cached insights stay valid.
const InsightsTTL = 24 * time.Hour

// RankedCount is a value with its number of occurrences.
type RankedCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// IndustryInsights holds frequency statistics over the profiles of one industry.
type IndustryInsights struct {
	// Industry is the industry the statistics cover.
	Industry string `json:"industry"`

	// TotalCompanies is the number of profiles analysed.
	TotalCompanies int `json:"totalCompanies"`

	// TopServices ranks key services by occurrence.
	TopServices []RankedCount `json:"topServices"`

	// PopularTemplates ranks templates by occurrence.
	PopularTemplates []RankedCount `json:"popularTemplates"`

	// BusinessTypes ranks business types by occurrence.
	BusinessTypes []RankedCount `json:"businessTypes"`

	// ComputedAt is when the statistics were computed. Zero for uncached empty results.
	ComputedAt time.Time `json:"computedAt"`
}

// IsFresh reports whether cached insights are still valid at now.
func (i *IndustryInsights) IsFresh(now time.Time) bool {
	return now.Sub(i.ComputedAt) < InsightsTTL
}

// EmptyInsights returns the zero-valued result for an industry with no profiles.
func EmptyInsights(industry string) *IndustryInsights {
	return &IndustryInsights{
		Industry:         industry,
		TopServices:      []RankedCount{},
		PopularTemplates: []RankedCount{},
		BusinessTypes:    []RankedCount{},
	}
}

// ToRecord converts the insights to a cache record.
func (i IndustryInsights) ToRecord() (Record, error) {
	payload, err := encodePayload(i)
	if err != nil {
		return Record{}, fmt.Errorf("encode insights: %w", err)
	}
	return Record{
		Attributes: map[string]string{AttrIndustry: i.Industry},
		Payload:    payload,
		CreatedAt:  i.ComputedAt,
	}, nil
}

// InsightsFromRecord converts a cache record back to insights.
func InsightsFromRecord(r Record) (*IndustryInsights, error) {
	var i IndustryInsights
	if err := decodePayload(r.Payload, &i); err != nil {
		return nil, fmt.Errorf("decode insights %s: %w", r.ID, err)
	}
	i.ComputedAt = r.CreatedAt
	return &i, nil
}
