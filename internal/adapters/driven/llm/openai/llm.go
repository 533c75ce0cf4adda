// Package openai completes prompts with the OpenAI chat completions API.
// BaseURL may point at any server that speaks the same protocol.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/contentrag/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-3.5-turbo"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig for the chat client. APIKey is mandatory.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type LLMService struct {
	api   *apiclient.Client
	model string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionReply struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
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
			Provider:    "openai",
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			Headers:     map[string]string{"Authorization": "Bearer " + cfg.APIKey},
			Unavailable: domain.ErrLLMUnavailable,
		}),
		model: cfg.Model,
	}, nil
}

// Complete sends the system prompt, when present, ahead of the user turn.
func (s *LLMService) Complete(ctx context.Context, system, user string, opts driven.CompletionOptions) (string, error) {
	var turns []driven.ChatMessage
	if system != "" {
		turns = append(turns, driven.ChatMessage{Role: driven.RoleSystem, Content: system})
	}
	turns = append(turns, driven.ChatMessage{Role: driven.RoleUser, Content: user})
	return s.Chat(ctx, turns, opts)
}

// Chat returns the first choice. JSONResponse switches on json_object mode.
func (s *LLMService) Chat(ctx context.Context, turns []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	req := chatCompletionRequest{
		Model:       s.model,
		Messages:    make([]message, 0, len(turns)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for _, t := range turns {
		req.Messages = append(req.Messages, message{Role: t.Role, Content: t.Content})
	}
	if opts.JSONResponse {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var reply chatCompletionReply
	if err := s.api.Post(ctx, "/chat/completions", req, &reply); err != nil {
		return "", err
	}
	if len(reply.Choices) == 0 {
		return "", fmt.Errorf("openai: %s returned no choices", s.model)
	}
	return reply.Choices[0].Message.Content, nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists models to check the key.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/models")
}

func (s *LLMService) Close() error { return nil }
