// Package plaintext passes text and JSON uploads through with light cleanup.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

var _ driven.Normaliser = (*Normaliser)(nil)

const priority = 50

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	titleSeps   = strings.NewReplacer("_", " ", "-", " ")
)

type Normaliser struct{}

func New() *Normaliser { return &Normaliser{} }

func (*Normaliser) SupportedMIMETypes() []string {
	return []string{"text/*", "application/json"}
}

func (*Normaliser) Priority() int { return priority }

// Normalise drops a leading byte order mark, folds CRLF and lone CR to LF
// and replaces invalid UTF-8 with U+FFFD. Content is otherwise untouched.
func (*Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	text := strings.TrimPrefix(string(raw.Content), "\ufeff")
	text = strings.ToValidUTF8(lineEndings.Replace(text), "\uFFFD")
	return &driven.NormaliseResult{Text: text, Title: title(raw.Name)}, nil
}

// title is the base name without extension, separators read as spaces.
func title(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(titleSeps.Replace(base))
}
