package services

import (
	"cmp"
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure GenerationService implements the interface.
var _ driving.GenerationService = (*GenerationService)(nil)

// Context sizes used during generation.
const (
	generationSimilarLimit   = 3
	generationDocumentsLimit = 3
)

// GenerationService runs context-aware content generation:
// retrieve, build context, synthesize, then store the enriched profile.
type GenerationService struct {
	search      driving.SearchService
	ingestion   driving.IngestionService
	builder     *ContextBuilder
	synthesizer *ContentSynthesizer
	validate    *validator.Validate
}

// NewGenerationService creates a new generation service.
func NewGenerationService(
	search driving.SearchService,
	ingestion driving.IngestionService,
	builder *ContextBuilder,
	synthesizer *ContentSynthesizer,
) *GenerationService {
	return &GenerationService{
		search:      search,
		ingestion:   ingestion,
		builder:     builder,
		synthesizer: synthesizer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Generate produces content for profile. A non-empty template overrides the
// profile's own, which in turn overrides domain.DefaultTemplate.
//
// Retrieval failures degrade to empty context and LLM failures to the
// fallback template; only an invalid profile or a failure to store the
// result is returned as an error.
func (s *GenerationService) Generate(
	ctx context.Context, profile *domain.CompanyProfile, template string,
) (*domain.GenerationResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile is required: %w", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	logger.Section("Generate " + profile.BusinessName)

	// Lookup failures are logged and leave that half of the context empty.
	var similar, documents []domain.SimilarityResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := s.search.FindSimilarProfiles(ctx, profile, generationSimilarLimit)
		if err != nil {
			logger.Warn("Similar profile lookup failed: %v", err)
			return
		}
		similar = res
	}()
	go func() {
		defer wg.Done()
		res, err := s.search.RelevantDocuments(ctx, profile, generationDocumentsLimit)
		if err != nil {
			logger.Warn("Relevant document lookup failed: %v", err)
			return
		}
		documents = res
	}()
	wg.Wait()

	logger.Debug("Context: %d similar profiles, %d document passages", len(similar), len(documents))
	contextText := s.builder.Build(similar, documents)

	content, fallback := s.synthesizer.Synthesize(ctx, profile, contextText)

	enriched := *profile
	enriched.GeneratedContent = &content
	enriched.Template = cmp.Or(template, profile.Template, domain.DefaultTemplate)
	enriched.VectorEnhanced = true

	id, err := s.ingestion.StoreProfile(ctx, &enriched)
	if err != nil {
		return nil, fmt.Errorf("store generated profile: %w", err)
	}

	return &domain.GenerationResult{
		Content:           content,
		ProfileID:         id,
		Template:          enriched.Template,
		Fallback:          fallback,
		SimilarProfiles:   len(similar),
		RelevantDocuments: len(documents),
	}, nil
}
