package driving

import "github.com/custodia-labs/contentrag/internal/core/domain"

// SettingsService reads and writes the persisted configuration. Reads merge
// stored values with CONTENTRAG_* environment overrides and defaults.
type SettingsService interface {
	Get() (*domain.AppSettings, error)
	// Save writes every field; empty API keys are left untouched.
	Save(settings *domain.AppSettings) error
	// Set parses value for the dotted key. Unknown keys and unparsable
	// values fail with domain.ErrInvalidInput.
	Set(key, value string) error
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error
	Validate() error
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig and ValidateLLMConfig ping the configured
	// provider; an unconfigured one passes.
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error
}
