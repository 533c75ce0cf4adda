package driven

import (
	"context"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

// Normaliser extracts plain text from uploaded bytes of certain MIME types.
type Normaliser interface {
	// SupportedMIMETypes may contain exact types, "type/*" or "*".
	SupportedMIMETypes() []string
	// Priority orders candidates, highest first. Specific handlers use
	// 50-89; catch-alls stay in 1-9.
	Priority() int
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, error)
}

type NormaliseResult struct {
	Text  string
	Title string // empty when the format carries none
}

// NormaliserRegistry picks the highest-priority normaliser matching a file.
// Files nothing matches fail with domain.ErrUnsupportedType.
type NormaliserRegistry interface {
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, error)
	Register(n Normaliser)
	SupportedMIMETypes() []string
}
