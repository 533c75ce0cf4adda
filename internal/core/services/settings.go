package services

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// Provider credentials read from the environment.
//
//nolint:gosec // G101: environment variable names, not credentials.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	envPrefix          = "CONTENTRAG_"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingKeys lists every key accepted by Set, in display order.
func SettingKeys() []string {
	keys := make([]string, len(settingsSchema))
	for i, def := range settingsSchema {
		keys[i] = def.key
	}
	return keys
}

// EnvName is the variable that overrides key: "search.threshold" is
// read from CONTENTRAG_SEARCH_THRESHOLD.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService resolves each setting from the environment, then the
// config store, then the built-in default.
type SettingsService struct {
	store     driven.ConfigStore
	validator driven.AIConfigValidator
	lookupEnv func(string) (string, bool)
}

type SettingsOption func(*SettingsService)

// WithEnvLookup replaces os.LookupEnv.
func WithEnvLookup(lookup func(string) (string, bool)) SettingsOption {
	return func(s *SettingsService) { s.lookupEnv = lookup }
}

// NewSettingsService wires the store and an optional validator.
func NewSettingsService(store driven.ConfigStore, validator driven.AIConfigValidator, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{store: store, validator: validator, lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := defaults
	settings.Embedding = domain.EmbeddingSettings{}
	settings.LLM = domain.LLMSettings{}
	for _, def := range settingsSchema {
		if raw, ok := s.raw(def.key); ok {
			decode(def.field(&settings), raw)
		}
	}

	s.fillProviderGaps(&settings, defaults)
	return &settings, nil
}

func (s *SettingsService) raw(key string) (any, bool) {
	if v, ok := s.lookupEnv(EnvName(key)); ok && v != "" {
		return v, true
	}
	return s.store.Get(key)
}

// fillProviderGaps completes provider, model, URL and key. OPENAI_API_KEY
// in the environment picks OpenAI for whichever side has no provider.
func (s *SettingsService) fillProviderGaps(settings *domain.AppSettings, defaults domain.AppSettings) {
	openAIKey, _ := s.lookupEnv(EnvOpenAIAPIKey)
	anthropicKey, _ := s.lookupEnv(EnvAnthropicAPIKey)
	envKey := map[domain.AIProvider]string{
		domain.AIProviderOpenAI:    openAIKey,
		domain.AIProviderAnthropic: anthropicKey,
	}

	emb := &settings.Embedding
	if emb.Provider == "" {
		emb.Provider = defaults.Embedding.Provider
		if openAIKey != "" {
			emb.Provider = domain.AIProviderOpenAI
		}
	}
	emb.Model = cmp.Or(emb.Model, domain.DefaultEmbeddingModels()[emb.Provider])
	if emb.Provider == domain.AIProviderOpenAI {
		emb.APIKey = cmp.Or(emb.APIKey, openAIKey)
	}
	if emb.Provider.IsLocal() {
		emb.BaseURL = cmp.Or(emb.BaseURL, defaultOllamaURL)
	}
	if emb.Dimensions == 0 {
		emb.Dimensions = defaults.Embedding.Dimensions
		if dims, ok := domain.EmbeddingDimensions()[emb.Model]; ok {
			emb.Dimensions = dims
		}
	}

	llm := &settings.LLM
	if llm.Provider == "" && openAIKey != "" {
		llm.Provider = domain.AIProviderOpenAI
	}
	if llm.Provider == "" {
		return
	}
	llm.Model = cmp.Or(llm.Model, domain.DefaultLLMModels()[llm.Provider])
	llm.APIKey = cmp.Or(llm.APIKey, envKey[llm.Provider])
	if llm.Provider.IsLocal() {
		llm.BaseURL = cmp.Or(llm.BaseURL, defaultOllamaURL)
	}
}

// Save writes every setting. Empty API keys are skipped so that keys
// supplied through the environment never reach the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	for _, def := range settingsSchema {
		v := encode(def.field(settings))
		if def.secret && v == "" {
			continue
		}
		if err := s.store.Set(def.key, v); err != nil {
			return fmt.Errorf("save %s: %w", def.key, err)
		}
	}
	return nil
}

func (s *SettingsService) Set(key, value string) error {
	def, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	parsed, err := parse(def.field(new(domain.AppSettings)), value)
	if err != nil {
		return fmt.Errorf("setting %s: %w: %v", key, domain.ErrInvalidInput, err)
	}
	if err := s.store.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func checkProvider(p domain.AIProvider, supported []domain.AIProvider, apiKey, use string) error {
	if !slices.Contains(supported, p) {
		return fmt.Errorf("provider %q cannot be used for %s: %w", p, use, domain.ErrInvalidInput)
	}
	if p.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s: %w", p, domain.ErrInvalidInput)
	}
	return nil
}

// SetEmbeddingProvider switches provider and model, resetting the base URL
// and picking the model's known dimensions.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if err := checkProvider(provider, domain.AllEmbeddingProviders(), apiKey, "embeddings"); err != nil {
		return err
	}
	return s.update(func(settings *domain.AppSettings) {
		e := &settings.Embedding
		e.Provider, e.APIKey, e.BaseURL = provider, apiKey, ""
		e.Model = cmp.Or(model, domain.DefaultEmbeddingModels()[provider])
		if provider.IsLocal() {
			e.BaseURL = defaultOllamaURL
		}
		if d, ok := domain.EmbeddingDimensions()[e.Model]; ok {
			e.Dimensions = d
		}
	})
}

func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if err := checkProvider(provider, domain.AllLLMProviders(), apiKey, "completions"); err != nil {
		return err
	}
	return s.update(func(settings *domain.AppSettings) {
		settings.LLM = domain.LLMSettings{
			Provider: provider,
			Model:    cmp.Or(model, domain.DefaultLLMModels()[provider]),
			APIKey:   apiKey,
		}
		if provider.IsLocal() {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	})
}

func (s *SettingsService) update(mutate func(*domain.AppSettings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	mutate(settings)
	return s.Save(settings)
}

func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// ValidateSettings checks settings for internal consistency only.
func ValidateSettings(settings *domain.AppSettings) error {
	var problem string
	switch {
	case !settings.Embedding.Provider.IsValid():
		problem = fmt.Sprintf("invalid embedding provider %q", settings.Embedding.Provider)
	case settings.LLM.Provider != "" && !settings.LLM.Provider.IsValid():
		problem = fmt.Sprintf("invalid LLM provider %q", settings.LLM.Provider)
	case settings.Pipeline.ChunkSize <= 0:
		problem = "chunk size must be positive"
	case settings.Pipeline.Overlap < 0 || settings.Pipeline.Overlap >= settings.Pipeline.ChunkSize:
		problem = "overlap must be in [0, chunk size)"
	case settings.Search.Threshold < -1 || settings.Search.Threshold > 1:
		problem = "threshold must be in [-1, 1]"
	case settings.Context.MaxChars <= 0:
		problem = "context budget must be positive"
	case !settings.Store.Backend.IsValid():
		problem = fmt.Sprintf("invalid store backend %q", settings.Store.Backend)
	case !settings.Cache.Backend.IsValid():
		problem = fmt.Sprintf("invalid cache backend %q", settings.Cache.Backend)
	case settings.Cache.Backend == domain.CacheBackendRedis && settings.Cache.RedisAddr == "":
		problem = "redis cache requires cache.redis_addr"
	case !settings.Blob.Backend.IsValid():
		problem = fmt.Sprintf("invalid blob backend %q", settings.Blob.Backend)
	case settings.Blob.Backend == domain.BlobBackendS3 && settings.Blob.Bucket == "":
		problem = "s3 blob store requires blob.bucket"
	default:
		return nil
	}
	return fmt.Errorf("%s: %w", problem, domain.ErrInvalidInput)
}

func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig pings the configured embedding provider. Without
// a validator it always passes.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateEmbedding(&settings.Embedding)
}

func (s *SettingsService) ValidateLLMConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateLLM(&settings.LLM)
}
