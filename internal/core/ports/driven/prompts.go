package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names missing on disk return the default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptContentSystem is the system prompt for content synthesis.
	// It has no placeholders.
	PromptContentSystem = "content_system"

	// PromptContentGeneration is the user prompt for content synthesis.
	// Placeholders: {{name}}, {{industry}}, {{audience}}, {{context}}.
	PromptContentGeneration = "content_generation"
)
