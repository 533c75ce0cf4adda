package ai

import (
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings before the settings service persists them.
type ConfigValidator struct{}

// NewConfigValidator returns a stateless validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding builds the configured embedder and pings it.
// Mock and empty providers pass without a network call.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(settings)
}

// ValidateLLM builds the configured completion client and pings it.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	return ValidateLLMConfig(settings)
}
