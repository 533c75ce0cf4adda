package driven

import "github.com/custodia-labs/contentrag/internal/core/domain"

// AIConfigValidator probes AI providers so that broken settings are
// rejected at `settings set` time rather than on the first ingest.
// A nil or unconfigured settings value is treated as valid.
type AIConfigValidator interface {
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
	ValidateLLM(settings *domain.LLMSettings) error
}
