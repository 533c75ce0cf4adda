package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Generation parameters for content synthesis.
const (
	synthesisTemperature = 0.7
	synthesisMaxTokens   = 2000
	defaultSynthesisWait = 60 * time.Second
)

// Fallback reasons reported to metrics.
const (
	fallbackNoLLM       = "no_llm"
	fallbackLLMError    = "llm_error"
	fallbackMalformed   = "malformed"
	fallbackPromptError = "prompt"
)

const contentSchemaJSON = `{
  "type": "object",
  "required": ["hero", "about", "services", "contact", "pages"],
  "properties": {
    "hero": {
      "type": "object",
      "required": ["headline", "subheadline", "ctaText"],
      "properties": {
        "headline": {"type": "string"},
        "subheadline": {"type": "string"},
        "ctaText": {"type": "string"}
      }
    },
    "about": {
      "type": "object",
      "required": ["content", "highlights"],
      "properties": {
        "content": {"type": "string"},
        "highlights": {"type": "array", "items": {"type": "string"}}
      }
    },
    "services": {
      "type": "object",
      "required": ["title", "items"],
      "properties": {
        "title": {"type": "string"},
        "items": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "description"],
            "properties": {
              "name": {"type": "string"},
              "description": {"type": "string"}
            }
          }
        }
      }
    },
    "contact": {
      "type": "object",
      "required": ["title", "description", "email", "phone"],
      "properties": {
        "title": {"type": "string"},
        "description": {"type": "string"},
        "email": {"type": "string"},
        "phone": {"type": "string"}
      }
    },
    "pages": {"type": "array", "items": {"type": "string"}}
  }
}`

var contentSchema = mustCompileSchema(contentSchemaJSON)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile content schema: %v", err))
	}
	return schema
}

// ContentSynthesizer turns a profile and retrieved context into website content.
// It never fails: any LLM problem yields the deterministic fallback template.
type ContentSynthesizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	metrics driven.Metrics
	timeout time.Duration
}

// SynthesizerOption configures the content synthesizer.
type SynthesizerOption func(*ContentSynthesizer)

// WithPromptStore loads prompts from a user-editable store.
func WithPromptStore(p driven.PromptStore) SynthesizerOption {
	return func(s *ContentSynthesizer) {
		s.prompts = p
	}
}

// WithSynthesisTimeout bounds each LLM call.
func WithSynthesisTimeout(d time.Duration) SynthesizerOption {
	return func(s *ContentSynthesizer) {
		s.timeout = d
	}
}

// WithSynthesisMetrics counts fallbacks.
func WithSynthesisMetrics(m driven.Metrics) SynthesizerOption {
	return func(s *ContentSynthesizer) {
		s.metrics = m
	}
}

// NewContentSynthesizer creates a synthesizer. llm may be nil.
func NewContentSynthesizer(llm driven.LLMService, opts ...SynthesizerOption) *ContentSynthesizer {
	s := &ContentSynthesizer{
		llm:     llm,
		timeout: defaultSynthesisWait,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize generates content for the profile. The second return value
// reports whether the fallback template was used.
func (s *ContentSynthesizer) Synthesize(
	ctx context.Context, profile *domain.CompanyProfile, contextText string,
) (domain.GeneratedContent, bool) {
	if s.llm == nil {
		return s.fallback(profile, fallbackNoLLM, nil), true
	}

	system, user, err := s.buildPrompts(profile, contextText)
	if err != nil {
		return s.fallback(profile, fallbackPromptError, err), true
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.llm.Complete(ctx, system, user, driven.CompletionOptions{
		Temperature:  synthesisTemperature,
		MaxTokens:    synthesisMaxTokens,
		JSONResponse: true,
	})
	if err != nil {
		return s.fallback(profile, fallbackLLMError, err), true
	}

	content, err := ParseGeneratedContent(reply)
	if err != nil {
		return s.fallback(profile, fallbackMalformed, err), true
	}

	logger.Debug("Synthesized content for %s with %s", profile.BusinessName, s.llm.ModelName())
	return content, false
}

func (s *ContentSynthesizer) buildPrompts(profile *domain.CompanyProfile, contextText string) (string, string, error) {
	system, template := domain.DefaultContentSystemPrompt, domain.DefaultContentGenerationPrompt
	if s.prompts != nil {
		var err error
		if system, err = s.prompts.Load(driven.PromptContentSystem); err != nil {
			return "", "", err
		}
		if template, err = s.prompts.Load(driven.PromptContentGeneration); err != nil {
			return "", "", err
		}
	}

	user := strings.NewReplacer(
		"{{name}}", profile.BusinessName,
		"{{industry}}", profile.Industry,
		"{{audience}}", profile.TargetAudience,
		"{{context}}", contextText,
	).Replace(template)
	return system, user, nil
}

func (s *ContentSynthesizer) fallback(profile *domain.CompanyProfile, reason string, err error) domain.GeneratedContent {
	if err != nil {
		logger.Warn("Content synthesis fell back (%s): %v", reason, err)
	} else {
		logger.Debug("Content synthesis using fallback template (%s)", reason)
	}
	if s.metrics != nil {
		s.metrics.IncSynthesisFallback(reason)
	}
	return FallbackContent(profile)
}

// ParseGeneratedContent decodes an LLM reply, tolerating a surrounding
// markdown code fence, and validates it against the content schema.
func ParseGeneratedContent(reply string) (domain.GeneratedContent, error) {
	raw := stripCodeFence(reply)
	if raw == "" {
		return domain.GeneratedContent{}, fmt.Errorf("%w: empty reply", domain.ErrMalformedContent)
	}

	result, err := contentSchema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("%w: %v", domain.ErrMalformedContent, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.GeneratedContent{}, fmt.Errorf("%w: %s", domain.ErrMalformedContent, strings.Join(msgs, "; "))
	}

	var content domain.GeneratedContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return domain.GeneratedContent{}, errors.Join(domain.ErrMalformedContent, err)
	}
	return content, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// FallbackContent returns the deterministic content template for a profile.
func FallbackContent(profile *domain.CompanyProfile) domain.GeneratedContent {
	services := profile.KeyServices
	if len(services) == 0 {
		services = []string{"Consulting", "Support"}
	}

	items := make([]domain.ServiceItem, 0, len(services))
	for _, svc := range services {
		items = append(items, domain.ServiceItem{
			Name:        svc,
			Description: fmt.Sprintf("Professional %s services tailored to your needs.", strings.ToLower(svc)),
		})
	}

	return domain.GeneratedContent{
		Hero: domain.HeroSection{
			Headline:    "Welcome to " + profile.BusinessName,
			Subheadline: fmt.Sprintf("Professional %s solutions for %s", profile.Industry, profile.TargetAudience),
			CTAText:     "Get Started",
		},
		About: domain.AboutSection{
			Content: fmt.Sprintf("%s delivers exceptional %s services with a focus on quality and innovation.",
				profile.BusinessName, profile.Industry),
			Highlights: []string{"Quality Service", "Expert Team", "Customer Focus"},
		},
		Services: domain.ServicesSection{
			Title: "Our Services",
			Items: items,
		},
		Contact: domain.ContactSection{
			Title:       "Contact Us",
			Description: "Get in touch to learn more about our services.",
			Email:       "contact@" + strings.Join(strings.Fields(strings.ToLower(profile.BusinessName)), "") + ".com",
			Phone:       "(555) 123-4567",
		},
		Pages: []string{"Home", "About", "Services", "Contact"},
	}
}
