package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// defaultDocumentListLimit is the page size when none is given.
const defaultDocumentListLimit = 50

// DocumentService manages ingested documents.
type DocumentService struct {
	store driven.VectorStore
	blobs driven.BlobStore
}

// NewDocumentService creates a new document service. blobs may be nil.
func NewDocumentService(store driven.VectorStore, blobs driven.BlobStore) *DocumentService {
	return &DocumentService{store: store, blobs: blobs}
}

// List returns the newest documents.
func (s *DocumentService) List(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = defaultDocumentListLimit
	}
	records, err := s.store.Query(ctx, domain.CollectionDocuments, domain.Newest(limit))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(records))
	for _, rec := range records {
		doc, err := domain.DocumentFromRecord(rec)
		if err != nil {
			logger.Warn("Skipping document: %v", err)
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Get retrieves a document and its embeddings ordered by chunk index.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.DocumentDetail, error) {
	rec, err := s.store.Get(ctx, domain.CollectionDocuments, documentID)
	if err != nil {
		return nil, err
	}
	doc, err := domain.DocumentFromRecord(*rec)
	if err != nil {
		return nil, err
	}

	embeddings, err := s.embeddings(ctx, documentID)
	if err != nil {
		return nil, err
	}

	detail := &domain.DocumentDetail{Document: *doc, Embeddings: make([]domain.EmbeddingRecord, 0, len(embeddings))}
	for _, r := range embeddings {
		emb, err := domain.EmbeddingFromRecord(r)
		if err != nil {
			logger.Warn("Skipping embedding: %v", err)
			continue
		}
		detail.Embeddings = append(detail.Embeddings, *emb)
	}
	return detail, nil
}

func (s *DocumentService) embeddings(ctx context.Context, documentID string) ([]domain.Record, error) {
	q := domain.Query{OrderBy: domain.OrderByPosition}.Where(domain.FieldParentID, documentID)
	records, err := s.store.Query(ctx, domain.CollectionEmbeddings, q)
	if err != nil {
		return nil, fmt.Errorf("load embeddings of %s: %w", documentID, err)
	}
	return records, nil
}

// Delete removes the archived blob and every embedding of a document, then
// the document itself. The document is kept when any child deletion fails
// so the delete can be retried; all failures are returned joined.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	rec, err := s.store.Get(ctx, domain.CollectionDocuments, documentID)
	if err != nil {
		return err
	}
	doc, err := domain.DocumentFromRecord(*rec)
	if err != nil {
		return err
	}

	var errs []error
	if doc.BlobKey != "" && s.blobs != nil {
		if err := s.blobs.Delete(ctx, doc.BlobKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete blob %s: %w", doc.BlobKey, err))
		}
	}

	embeddings, err := s.embeddings(ctx, documentID)
	if err != nil {
		errs = append(errs, err)
	}
	for _, e := range embeddings {
		if err := s.store.Delete(ctx, domain.CollectionEmbeddings, e.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete embedding %s: %w", e.ID, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if err := s.store.Delete(ctx, domain.CollectionDocuments, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	logger.Info("Deleted document %s (%d embeddings)", documentID, len(embeddings))
	return nil
}
