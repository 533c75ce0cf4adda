// Package chunker cuts document text into overlapping, sentence-aligned passages.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.PostProcessor = (*Processor)(nil)

// Defaults in runes.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Processor is the pipeline stage wrapping Split. It discards any chunks
// handed to it and rebuilds them from doc.Text.
type Processor struct {
	chunkSize int
	overlap   int
}

type Option func(*Processor)

// WithChunkSize ignores non-positive sizes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap ignores negative overlaps.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New applies opts over the defaults. An overlap that is not smaller than
// the chunk size is replaced by a quarter of the chunk size.
func New(opts ...Option) *Processor {
	p := &Processor{chunkSize: DefaultChunkSize, overlap: DefaultChunkOverlap}
	for _, opt := range opts {
		opt(p)
	}
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}
	return p
}

func (p *Processor) Name() string   { return "chunker" }
func (p *Processor) ChunkSize() int { return p.chunkSize }
func (p *Processor) Overlap() int   { return p.overlap }

// Process names chunks "{docID}_chunk_{i}" once the document has an ID.
// Before the document is stored it has none, so chunks get random IDs.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	passages := Split(doc.Text, p.chunkSize, p.overlap)
	if len(passages) == 0 {
		return nil, nil
	}

	out := make([]domain.Chunk, len(passages))
	for i, text := range passages {
		id := uuid.NewString()
		if doc.ID != "" {
			id = domain.ChunkID(doc.ID, i)
		}
		meta := map[string]any{}
		if doc.SourceName != "" {
			meta["source"] = doc.SourceName
		}
		out[i] = domain.Chunk{
			ID:         id,
			DocumentID: doc.ID,
			Content:    text,
			Position:   i,
			Metadata:   meta,
		}
	}
	return out, nil
}
