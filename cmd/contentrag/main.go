// Command contentrag ingests reference material and generates website content
// grounded in similar companies and documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/contentrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/blob/local"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/blob/s3"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contentrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/contentrag/internal/adapters/driving/cli"
	apihttp "github.com/custodia-labs/contentrag/internal/adapters/driving/http"
	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/core/services"
	"github.com/custodia-labs/contentrag/internal/logger"
	"github.com/custodia-labs/contentrag/internal/normalisers"
	"github.com/custodia-labs/contentrag/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Loading .env: %v", err)
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		logger.Warn("Invalid settings, using defaults where needed: %v", err)
	}

	store, err := openStore(settings.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing store: %v", err)
		}
	}()

	blobs, err := openBlobStore(ctx, settings.Blob)
	if err != nil {
		logger.Warn("File archive disabled: %v", err)
		blobs = nil
	}

	metrics := prometheus.New()

	aiServices := ai.Init(ctx, settings, metrics)
	defer aiServices.Close()

	pipeline, err := postprocessors.NewDefaultPipeline(settings.Pipeline)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		logger.Warn("Using built-in prompts: %v", err)
		prompts = nil
	}

	ingestionOpts := []services.IngestionOption{
		services.WithNormalisers(normalisers.NewDefaultRegistry()),
		services.WithMaxFileSize(settings.Pipeline.MaxFileSize),
		services.WithIngestionMetrics(metrics),
	}
	if blobs != nil {
		ingestionOpts = append(ingestionOpts, services.WithBlobStore(blobs))
	}
	ingestion := services.NewIngestionService(store, aiServices.Embedding, pipeline, ingestionOpts...)

	search := services.NewSearchService(store, aiServices.Embedding,
		services.WithCandidateLimit(settings.Search.CandidateLimit),
		services.WithSearchDefaults(settings.Search.Limit, settings.Search.Threshold),
		services.WithSearchMetrics(metrics),
	)

	synthOpts := []services.SynthesizerOption{services.WithSynthesisMetrics(metrics)}
	if prompts != nil {
		synthOpts = append(synthOpts, services.WithPromptStore(prompts))
	}
	generation := services.NewGenerationService(
		search,
		ingestion,
		services.NewContextBuilder(settings.Context.MaxChars),
		services.NewContentSynthesizer(aiServices.LLM, synthOpts...),
	)

	status := apihttp.Status{
		EmbeddingModel: aiServices.Embedding.ModelName(),
		Dimensions:     aiServices.Embedding.Dimensions(),
		MockEmbeddings: !settings.Embedding.IsConfigured(),
		Store:          string(settings.Store.Backend),
	}
	if aiServices.LLM != nil {
		status.LLMModel = aiServices.LLM.ModelName()
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingestion:  ingestion,
		Search:     search,
		Generation: generation,
		Insights:   services.NewInsightsService(store, services.WithInsightsMetrics(metrics)),
		Document:   services.NewDocumentService(store, blobs),
		Settings:   settingsService,
		Metrics:    metrics,
		Status:     status,
	})

	return cli.Execute(ctx)
}

func openStore(settings domain.StoreSettings) (driven.VectorStore, error) {
	switch settings.Backend {
	case domain.StoreBackendMemory:
		logger.Debug("Using in-memory store")
		return memory.NewVectorStore(), nil
	default:
		store, err := sqlite.NewStore(settings.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		return store, nil
	}
}

func openBlobStore(ctx context.Context, settings domain.BlobSettings) (driven.BlobStore, error) {
	switch settings.Backend {
	case domain.BlobBackendNone:
		return nil, nil
	case domain.BlobBackendS3:
		return s3.NewStore(ctx, s3.Config{
			Bucket:   settings.Bucket,
			Region:   settings.Region,
			Endpoint: settings.Endpoint,
		})
	default:
		return local.NewStore(settings.Dir)
	}
}
