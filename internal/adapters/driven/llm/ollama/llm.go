// Package ollama completes prompts with a local Ollama server.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/contentrag/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

type LLMConfig struct {
	BaseURL string
	Model   string
	// Timeout covers the whole non-streamed generation.
	Timeout time.Duration
}

// LLMService talks to /api/chat with streaming off.
type LLMService struct {
	api   *apiclient.Client
	model string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generationOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string             `json:"model"`
	Messages []chatMessage      `json:"messages"`
	Stream   bool               `json:"stream"`
	Format   string             `json:"format,omitempty"`
	Options  *generationOptions `json:"options,omitempty"`
}

func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api: apiclient.New(apiclient.Config{
			Provider:    "ollama",
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			Unavailable: domain.ErrLLMUnavailable,
		}),
		model: cfg.Model,
	}
}

func (s *LLMService) Complete(ctx context.Context, system, user string, opts driven.CompletionOptions) (string, error) {
	turns := make([]driven.ChatMessage, 0, 2)
	if system != "" {
		turns = append(turns, driven.ChatMessage{Role: driven.RoleSystem, Content: system})
	}
	return s.Chat(ctx, append(turns, driven.ChatMessage{Role: driven.RoleUser, Content: user}), opts)
}

// Chat maps MaxTokens to num_predict and JSONResponse to format=json.
func (s *LLMService) Chat(ctx context.Context, turns []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	req := chatRequest{Model: s.model}
	for _, t := range turns {
		req.Messages = append(req.Messages, chatMessage{Role: t.Role, Content: t.Content})
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		req.Options = &generationOptions{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
	}
	if opts.JSONResponse {
		req.Format = "json"
	}

	var reply struct {
		Message chatMessage `json:"message"`
	}
	if err := s.api.Post(ctx, "/api/chat", req, &reply); err != nil {
		return "", err
	}
	return reply.Message.Content, nil
}

func (s *LLMService) ModelName() string { return s.model }

func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/api/tags")
}

func (s *LLMService) Close() error { return nil }
