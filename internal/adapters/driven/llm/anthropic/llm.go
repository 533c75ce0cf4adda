// Package anthropic completes prompts with the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/contentrag/internal/adapters/driven/apiclient"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"

	// The Messages API has no JSON mode, so JSONResponse appends this to the system prompt.
	jsonInstruction = "Respond with a single JSON object and nothing else."
)

// Config for the Messages client. APIKey is mandatory.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type LLMService struct {
	api   *apiclient.Client
	model string
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string  `json:"model"`
	System      string  `json:"system,omitempty"`
	Messages    []turn  `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature,omitempty"`
}

type messagesReply struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		api: apiclient.New(apiclient.Config{
			Provider: "anthropic",
			BaseURL:  cfg.BaseURL,
			Timeout:  cfg.Timeout,
			Headers: map[string]string{
				"x-api-key":         cfg.APIKey,
				"anthropic-version": anthropicVersion,
			},
			Unavailable: domain.ErrLLMUnavailable,
		}),
		model: cfg.Model,
	}, nil
}

func (s *LLMService) Complete(ctx context.Context, system, user string, opts driven.CompletionOptions) (string, error) {
	return s.send(ctx, system, []driven.ChatMessage{{Role: driven.RoleUser, Content: user}}, opts)
}

// Chat moves system turns into the top-level system field, joined by blank lines.
func (s *LLMService) Chat(ctx context.Context, turns []driven.ChatMessage, opts driven.CompletionOptions) (string, error) {
	var system []string
	conversation := make([]driven.ChatMessage, 0, len(turns))
	for _, t := range turns {
		if t.Role == driven.RoleSystem {
			system = append(system, t.Content)
		} else {
			conversation = append(conversation, t)
		}
	}
	return s.send(ctx, strings.Join(system, "\n\n"), conversation, opts)
}

func (s *LLMService) send(
	ctx context.Context, system string, turns []driven.ChatMessage, opts driven.CompletionOptions,
) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		System:      system,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}
	if opts.JSONResponse {
		req.System = strings.TrimSpace(req.System + "\n\n" + jsonInstruction)
	}
	for _, t := range turns {
		req.Messages = append(req.Messages, turn{Role: t.Role, Content: t.Content})
	}

	var reply messagesReply
	if err := s.api.Post(ctx, "/v1/messages", req, &reply); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range reply.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: %s returned no text blocks", s.model)
	}
	return text.String(), nil
}

func (s *LLMService) ModelName() string { return s.model }

func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/v1/models")
}

func (s *LLMService) Close() error { return nil }
