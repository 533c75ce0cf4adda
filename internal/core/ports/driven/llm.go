package driven

import "context"

// LLMService is a chat completion backend (Ollama, OpenAI or Anthropic).
type LLMService interface {
	// Complete sends one user turn, preceded by system when non-empty.
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)
	Chat(ctx context.Context, messages []ChatMessage, opts CompletionOptions) (string, error)
	ModelName() string
	// Ping must not run inference.
	Ping(ctx context.Context) error
	Close() error
}

// CompletionOptions left at zero defer to the provider's defaults.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
	// JSONResponse requests a bare JSON object. Providers without a JSON
	// mode approximate it through the prompt.
	JSONResponse bool
}

type ChatMessage struct {
	Role    string // RoleSystem, RoleUser or RoleAssistant
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
