package postprocessors

import (
	"fmt"
	"math"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
	"github.com/custodia-labs/contentrag/internal/postprocessors/chunker"
)

const ChunkerName = "chunker"

// RegisterDefaults adds the built-in stages to r.
func RegisterDefaults(r *Registry) {
	r.Register(ChunkerName, newChunkerStage)
}

// NewDefaultPipeline is the ingestion pipeline: a single chunker sized by
// the pipeline settings.
func NewDefaultPipeline(settings domain.PipelineSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline([]string{ChunkerName}, map[string]map[string]any{
		ChunkerName: {"chunk_size": settings.ChunkSize, "overlap": settings.Overlap},
	})
}

// newChunkerStage reads chunk_size and overlap. Absent or zero keys keep
// the chunker defaults.
func newChunkerStage(cfg map[string]any) (driven.PostProcessor, error) {
	size, err := intSetting(cfg, "chunk_size")
	if err != nil {
		return nil, err
	}
	overlap, err := intSetting(cfg, "overlap")
	if err != nil {
		return nil, err
	}

	var opts []chunker.Option
	if size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...), nil
}

// intSetting accepts the integer shapes produced by Go literals, TOML
// (int64) and JSON (float64). A missing key reads as 0.
func intSetting(cfg map[string]any, key string) (int, error) {
	switch v := cfg[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s: %v is not a whole number", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s: expected a number, got %T", key, v)
	}
}
