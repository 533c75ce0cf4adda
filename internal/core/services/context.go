package services

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

const (
	similarHeader  = "Similar companies:\n"
	insightsHeader = "Relevant industry insights:\n"
)

// ContextBuilder renders retrieved results into a bounded prompt context.
type ContextBuilder struct {
	maxChars int
}

// NewContextBuilder creates a builder with a character budget.
// A non-positive budget uses domain.DefaultContextChars.
func NewContextBuilder(maxChars int) *ContextBuilder {
	if maxChars <= 0 {
		maxChars = domain.DefaultContextChars
	}
	return &ContextBuilder{maxChars: maxChars}
}

// MaxChars returns the character budget.
func (b *ContextBuilder) MaxChars() int {
	return b.maxChars
}

// Build renders similar companies followed by relevant insights.
// The companies section ends with a blank line. Empty sections are omitted. While the output exceeds the budget the
// lowest-ranked item (the last one rendered) is dropped; a single item
// that alone exceeds the budget is truncated.
func (b *ContextBuilder) Build(similar, documents []domain.SimilarityResult) string {
	companies := texts(similar)
	insights := texts(documents)

	for {
		out := render(companies, insights)
		if utf8.RuneCountInString(out) <= b.maxChars {
			return out
		}
		switch {
		case len(companies)+len(insights) <= 1:
			return truncateRunes(out, b.maxChars)
		case len(insights) > 0:
			insights = insights[:len(insights)-1]
		default:
			companies = companies[:len(companies)-1]
		}
	}
}

func texts(results []domain.SimilarityResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Text)
	}
	return out
}

func render(companies, insights []string) string {
	var sb strings.Builder
	if len(companies) > 0 {
		sb.WriteString(similarHeader)
		for _, t := range companies {
			sb.WriteString("- ")
			sb.WriteString(t)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	if len(insights) > 0 {
		sb.WriteString(insightsHeader)
		for _, t := range insights {
			sb.WriteString("- ")
			sb.WriteString(t)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
