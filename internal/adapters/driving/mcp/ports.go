package mcp

import (
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server exposes.
type Ports struct {
	// Search provides similarity search over chunks and profiles.
	Search driving.SearchService

	// Generation synthesizes website content.
	Generation driving.GenerationService

	// Insights provides industry statistics.
	Insights driving.InsightsService

	// Document lists and reads ingested documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Generation, Insights and Document are optional; their tools report
	// errServiceUnavailable when called.
	return nil
}
