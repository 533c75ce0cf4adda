package ai

import (
	"context"
	"errors"
	"fmt"

	ollamaembed "github.com/custodia-labs/contentrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/contentrag/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/contentrag/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/contentrag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/contentrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var embedders = map[domain.AIProvider]func(*domain.EmbeddingSettings) (driven.EmbeddingService, error){
	domain.AIProviderOllama: func(s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           s.BaseURL,
			Model:             s.Model,
			RequestsPerSecond: s.RequestsPerSecond,
		}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:            s.APIKey,
			BaseURL:           s.BaseURL,
			Model:             s.Model,
			RequestsPerSecond: s.RequestsPerSecond,
		})
	},
}

var chatModels = map[domain.AIProvider]func(*domain.LLMSettings) (driven.LLMService, error){
	domain.AIProviderOllama: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return ollamallm.NewLLMService(ollamallm.LLMConfig{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
	domain.AIProviderOpenAI: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return openaillm.NewLLMService(openaillm.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderAnthropic: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return anthropicllm.NewLLMService(anthropicllm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
}

// CreateEmbeddingService builds the real provider named by settings. The
// mock provider and missing credentials are errors here.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, errors.New("embedding provider not configured")
	}
	build, ok := embedders[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%s does not support embeddings, use ollama or openai", settings.Provider)
	}
	return build(settings)
}

// CreateLLMService returns (nil, nil) when no LLM is configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	build, ok := chatModels[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	return build(settings)
}

// ValidateEmbeddingConfig pings the provider in settings. Unconfigured
// settings pass.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	return pingOnce(svc, domain.ErrEmbeddingUnavailable)
}

func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	return pingOnce(svc, domain.ErrLLMUnavailable)
}

type pingCloser interface {
	Ping(ctx context.Context) error
	Close() error
}

// pingOnce pings svc within pingTimeout, then closes it. A failed ping is
// wrapped in unavailable.
func pingOnce(svc pingCloser, unavailable error) error {
	defer svc.Close()
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", unavailable, err)
	}
	return nil
}
