package domain

// AIProvider names a backend for embeddings, chat completion or both.
type AIProvider string

const (
	AIProviderMock      AIProvider = "mock"
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	label      string
	needsKey   bool
	local      bool
	embedModel string // empty when the provider cannot embed
	llmModel   string // empty when the provider cannot chat
}

// Order here is the order shown in interactive prompts.
var providerOrder = []AIProvider{AIProviderMock, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}

var providerTable = map[AIProvider]providerInfo{
	AIProviderMock:      {label: "Mock (deterministic, offline)", embedModel: "mock-hash"},
	AIProviderOllama:    {label: "Ollama (local)", local: true, embedModel: "nomic-embed-text", llmModel: "llama3.2"},
	AIProviderOpenAI:    {label: "OpenAI (cloud)", needsKey: true, embedModel: "text-embedding-ada-002", llmModel: "gpt-3.5-turbo"},
	AIProviderAnthropic: {label: "Anthropic (cloud)", needsKey: true, llmModel: "claude-3-5-sonnet-latest"},
}

func (p AIProvider) IsValid() bool {
	_, ok := providerTable[p]
	return ok
}

func (p AIProvider) RequiresAPIKey() bool { return providerTable[p].needsKey }
func (p AIProvider) IsLocal() bool        { return providerTable[p].local }
func (p AIProvider) String() string       { return string(p) }

// Description is the label used in CLI output, "Unknown" for unrecognised values.
func (p AIProvider) Description() string {
	if i, ok := providerTable[p]; ok {
		return i.label
	}
	return "Unknown"
}

// configured reports whether p is a real provider with whatever
// credentials it needs.
func (p AIProvider) configured(apiKey string) bool {
	i, ok := providerTable[p]
	return ok && p != AIProviderMock && (!i.needsKey || apiKey != "")
}

func providersWhere(keep func(providerInfo) bool) []AIProvider {
	var out []AIProvider
	for _, p := range providerOrder {
		if keep(providerTable[p]) {
			out = append(out, p)
		}
	}
	return out
}

func AllEmbeddingProviders() []AIProvider {
	return providersWhere(func(i providerInfo) bool { return i.embedModel != "" })
}

func AllLLMProviders() []AIProvider {
	return providersWhere(func(i providerInfo) bool { return i.llmModel != "" })
}

func DefaultEmbeddingModels() map[AIProvider]string {
	m := map[AIProvider]string{}
	for _, p := range AllEmbeddingProviders() {
		m[p] = providerTable[p].embedModel
	}
	return m
}

func DefaultLLMModels() map[AIProvider]string {
	m := map[AIProvider]string{}
	for _, p := range AllLLMProviders() {
		m[p] = providerTable[p].llmModel
	}
	return m
}

// EmbeddingDimensions maps well-known embedding models to their vector size.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
