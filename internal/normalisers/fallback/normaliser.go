// Package fallback provides the catch-all normaliser for binary and
// unrecognised uploads.
package fallback

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser describes files it cannot read instead of failing.
// PDFs and office documents become a one-line placeholder; anything
// else is used verbatim when it is valid UTF-8.
type Normaliser struct{}

// New creates a new fallback normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes matches every type.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"*"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 1
}

// Normalise never fails for a non-nil file.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mimeType := strings.ToLower(raw.MIMEType)
	var text string
	switch {
	case mimeType == "application/pdf":
		text = "PDF Document: " + raw.Name
	case strings.Contains(mimeType, "word"), strings.Contains(mimeType, "document"):
		text = "Document: " + raw.Name
	case utf8.Valid(raw.Content):
		text = string(raw.Content)
	default:
		text = "File: " + raw.Name
	}

	return &driven.NormaliseResult{Text: text, Title: raw.Name}, nil
}
