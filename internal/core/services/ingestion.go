package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// defaultMaxFileSize is the upload limit when none is configured.
const defaultMaxFileSize = 10 * 1024 * 1024

// IngestionService chunks, embeds and stores documents and profiles.
type IngestionService struct {
	store       driven.VectorStore
	embedder    driven.EmbeddingService
	pipeline    driven.PostProcessorPipeline
	normalisers driven.NormaliserRegistry
	blobs       driven.BlobStore
	metrics     driven.Metrics
	validate    *validator.Validate
	maxFileSize int64
	now         func() time.Time
}

// IngestionOption configures the ingestion service.
type IngestionOption func(*IngestionService)

// WithBlobStore archives uploaded bytes before extraction.
func WithBlobStore(b driven.BlobStore) IngestionOption {
	return func(s *IngestionService) {
		s.blobs = b
	}
}

// WithNormalisers sets the registry used to extract text from uploads.
func WithNormalisers(r driven.NormaliserRegistry) IngestionOption {
	return func(s *IngestionService) {
		s.normalisers = r
	}
}

// WithMaxFileSize sets the upload size limit in bytes.
func WithMaxFileSize(n int64) IngestionOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// WithIngestionMetrics records ingestion outcomes.
func WithIngestionMetrics(m driven.Metrics) IngestionOption {
	return func(s *IngestionService) {
		s.metrics = m
	}
}

// WithIngestionClock overrides the time source for blob keys and timestamps.
func WithIngestionClock(now func() time.Time) IngestionOption {
	return func(s *IngestionService) {
		s.now = now
	}
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	pipeline driven.PostProcessorPipeline,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		store:       store,
		embedder:    embedder,
		pipeline:    pipeline,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		maxFileSize: defaultMaxFileSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestText chunks and embeds text, then stores the document followed by
// one embedding record per chunk. If any write fails, records already
// written are removed and the storage error is returned.
func (s *IngestionService) IngestText(
	ctx context.Context, name, text string, metadata map[string]any,
) (*domain.IngestResult, error) {
	result, err := s.ingest(ctx, domain.Document{
		SourceName: name,
		MIMEType:   "text/plain",
		Size:       int64(len(text)),
		Text:       text,
		Metadata:   metadata,
	})
	if s.metrics != nil {
		chunks := 0
		if result != nil {
			chunks = result.ChunkCount
		}
		s.metrics.ObserveIngest(chunks, err)
	}
	return result, err
}

func (s *IngestionService) ingest(ctx context.Context, doc domain.Document) (*domain.IngestResult, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("text is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(doc.SourceName) == "" {
		doc.SourceName = "untitled"
	}

	logger.Section("Ingest " + doc.SourceName)

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.SourceName, err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", doc.SourceName, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d chunks", doc.SourceName, len(vectors), len(chunks))
	}
	logger.Debug("Embedded %d chunks with %s", len(chunks), s.embedder.ModelName())

	doc.ChunkCount = len(chunks)
	doc.CreatedAt = s.now().UTC()
	rec, err := doc.ToRecord()
	if err != nil {
		return nil, err
	}
	docID, err := s.store.Add(ctx, domain.CollectionDocuments, rec)
	if err != nil {
		return nil, fmt.Errorf("store document %s: %w", doc.SourceName, err)
	}

	written := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		emb := domain.EmbeddingRecord{
			DocumentID: docID,
			ChunkID:    domain.ChunkID(docID, i),
			ChunkIndex: i,
			Text:       chunk.Content,
			Embedding:  vectors[i],
			Metadata:   doc.Metadata,
			CreatedAt:  doc.CreatedAt,
		}
		embRec, err := emb.ToRecord()
		if err == nil {
			var id string
			id, err = s.store.Add(ctx, domain.CollectionEmbeddings, embRec)
			written = append(written, id)
		}
		if err != nil {
			s.rollback(context.WithoutCancel(ctx), docID, written)
			return nil, fmt.Errorf("store chunk %d of %s: %w", i, doc.SourceName, err)
		}
	}

	logger.Info("Ingested %s as %s (%d chunks)", doc.SourceName, docID, len(chunks))
	return &domain.IngestResult{
		DocumentID:   docID,
		BlobLocation: doc.BlobLocation,
		ChunkCount:   len(chunks),
		TextLength:   utf8.RuneCountInString(doc.Text),
	}, nil
}

// rollback removes a partially ingested document. Failures are logged only.
func (s *IngestionService) rollback(ctx context.Context, docID string, embeddingIDs []string) {
	var errs []error
	for _, id := range embeddingIDs {
		if id == "" {
			continue
		}
		if err := s.store.Delete(ctx, domain.CollectionEmbeddings, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, err)
		}
	}
	if err := s.store.Delete(ctx, domain.CollectionDocuments, docID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error(err, "Rollback of document %s incomplete", docID)
	}
}

// IngestFile archives the raw bytes, extracts text and ingests it.
func (s *IngestionService) IngestFile(
	ctx context.Context, file domain.RawFile, metadata map[string]any,
) (*domain.IngestResult, error) {
	if len(file.Content) == 0 {
		return nil, fmt.Errorf("file %q is empty: %w", file.Name, domain.ErrInvalidInput)
	}
	if int64(len(file.Content)) > s.maxFileSize {
		return nil, fmt.Errorf("file %q is %d bytes, limit %d: %w",
			file.Name, len(file.Content), s.maxFileSize, domain.ErrFileTooLarge)
	}
	if s.normalisers == nil {
		return nil, fmt.Errorf("no normalisers configured: %w", domain.ErrUnsupportedType)
	}

	doc := domain.Document{
		SourceName: file.Name,
		MIMEType:   file.MIMEType,
		Size:       int64(len(file.Content)),
		Metadata:   metadata,
	}

	if s.blobs != nil {
		key := fmt.Sprintf("documents/%d_%s", s.now().UnixNano(), file.Name)
		location, err := s.blobs.Put(ctx, key, file.Content, file.MIMEType)
		if err != nil {
			return nil, fmt.Errorf("archive %s: %w", file.Name, err)
		}
		doc.BlobKey = key
		doc.BlobLocation = location
	}

	normalised, err := s.normalisers.Normalise(ctx, &file)
	if err != nil {
		s.discardBlob(ctx, doc.BlobKey)
		return nil, fmt.Errorf("extract %s: %w", file.Name, err)
	}
	doc.Text = normalised.Text

	result, err := s.ingest(ctx, doc)
	if s.metrics != nil {
		chunks := 0
		if result != nil {
			chunks = result.ChunkCount
		}
		s.metrics.ObserveIngest(chunks, err)
	}
	if err != nil {
		s.discardBlob(ctx, doc.BlobKey)
		return nil, err
	}
	return result, nil
}

func (s *IngestionService) discardBlob(ctx context.Context, key string) {
	if key == "" || s.blobs == nil {
		return
	}
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.Warn("Failed to remove archived blob %s: %v", key, err)
	}
}

// StoreProfile validates and embeds a profile and appends it to the profiles collection.
func (s *IngestionService) StoreProfile(ctx context.Context, profile *domain.CompanyProfile) (string, error) {
	if err := s.validate.Struct(profile); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	stored := *profile
	stored.ID = ""
	stored.TextRepresentation = stored.Text()
	vector, err := s.embedder.Embed(ctx, stored.TextRepresentation)
	if err != nil {
		return "", fmt.Errorf("embed profile %s: %w", stored.BusinessName, err)
	}
	stored.Embedding = vector
	stored.CreatedAt = s.now().UTC()

	rec, err := stored.ToRecord()
	if err != nil {
		return "", err
	}
	id, err := s.store.Add(ctx, domain.CollectionProfiles, rec)
	if err != nil {
		return "", fmt.Errorf("store profile %s: %w", stored.BusinessName, err)
	}

	logger.Info("Stored profile %s for %s", id, stored.BusinessName)
	return id, nil
}
