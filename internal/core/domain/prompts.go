package domain

// Built-in prompt templates for content synthesis.
// The generation prompt uses {{name}}, {{industry}}, {{audience}} and {{context}} placeholders.
const (
	DefaultContentSystemPrompt = "You are an expert web content generator. Always respond with valid JSON."

	DefaultContentGenerationPrompt = `Generate website content for {{name}}, a {{industry}} company targeting {{audience}}.

Context from similar companies and documents:
{{context}}

Generate a JSON response with:
{
  "hero": {
    "headline": "Main headline",
    "subheadline": "Supporting text",
    "ctaText": "Call to action button text"
  },
  "about": {
    "content": "About section content",
    "highlights": ["key point 1", "key point 2", "key point 3"]
  },
  "services": {
    "title": "Services section title",
    "items": [
      {"name": "Service 1", "description": "Service description"},
      {"name": "Service 2", "description": "Service description"}
    ]
  },
  "contact": {
    "title": "Contact section title",
    "description": "Contact description",
    "email": "contact email",
    "phone": "phone number"
  },
  "pages": ["Home", "About", "Services", "Contact"]
}`
)
