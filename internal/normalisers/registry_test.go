package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contentrag/internal/core/domain"
	"github.com/custodia-labs/contentrag/internal/core/ports/driven"
)

type fixedNormaliser struct {
	types    []string
	priority int
	text     string
}

func (f *fixedNormaliser) SupportedMIMETypes() []string { return f.types }
func (f *fixedNormaliser) Priority() int                { return f.priority }

func (f *fixedNormaliser) Normalise(context.Context, *domain.RawFile) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Text: f.text}, nil
}

func TestRegistry_DefaultDispatch(t *testing.T) {
	r := NewDefaultRegistry()
	ctx := context.Background()

	tests := []struct {
		name     string
		file     domain.RawFile
		expected string
	}{
		{"plain text", domain.RawFile{Name: "a.txt", MIMEType: "text/plain", Content: []byte("hi")}, "hi"},
		{"markdown is text", domain.RawFile{Name: "a.md", MIMEType: "text/markdown", Content: []byte("# hi")}, "# hi"},
		{"charset param", domain.RawFile{Name: "a.txt", MIMEType: "Text/Plain; charset=utf-8", Content: []byte("x")}, "x"},
		{"json", domain.RawFile{Name: "a.json", MIMEType: "application/json", Content: []byte("{}")}, "{}"},
		{"xhtml", domain.RawFile{Name: "a.xhtml", MIMEType: "application/xhtml+xml", Content: []byte("<p>Hi</p>")}, "Hi"},
		{"pdf", domain.RawFile{Name: "a.pdf", MIMEType: "application/pdf", Content: []byte("%PDF")}, "PDF Document: a.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Normalise(ctx, &tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Text)
		})
	}
}

func TestRegistry_PriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&fixedNormaliser{types: []string{"text/*"}, priority: 10, text: "low"})
	r.Register(&fixedNormaliser{types: []string{"text/csv"}, priority: 70, text: "high"})

	result, err := r.Normalise(context.Background(), &domain.RawFile{MIMEType: "text/csv"})
	require.NoError(t, err)
	assert.Equal(t, "high", result.Text)

	result, err = r.Normalise(context.Background(), &domain.RawFile{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "low", result.Text)
}

func TestRegistry_NoMatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&fixedNormaliser{types: []string{"text/plain"}, priority: 10})

	_, err := r.Normalise(context.Background(), &domain.RawFile{MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = r.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	types := NewDefaultRegistry().SupportedMIMETypes()
	assert.Equal(t, []string{"*", "application/json", "application/xhtml+xml", "text/*"}, types)
}
