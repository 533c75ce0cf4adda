// Package postprocessors turns extracted document text into chunks.
package postprocessors

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline feeds each stage the previous stage's output, starting from nil.
type Pipeline struct {
	stages []driven.PostProcessor
}

func NewPipeline(stages ...driven.PostProcessor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Process checks ctx between stages. Whatever the stages do, the result
// has positions 0..n-1 and carries doc.ID.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, errors.New("postprocess: nil document")
	}

	var chunks []domain.Chunk
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := stage.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", stage.Name(), err)
		}
		chunks = out
	}

	for i := range chunks {
		chunks[i].Position, chunks[i].DocumentID = i, doc.ID
	}
	return chunks, nil
}

func (p *Pipeline) Add(stage driven.PostProcessor) { p.stages = append(p.stages, stage) }
func (p *Pipeline) Len() int                       { return len(p.stages) }
