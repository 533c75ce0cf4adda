package domain

import "errors"

// Sentinel errors. Adapters wrap them with %w; callers test with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedType covers unknown collections, backends and MIME types.
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrFileTooLarge      = errors.New("file too large")

	// ErrLLMUnavailable means synthesis must use the fallback template.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
	// ErrEmbeddingUnavailable means the configured provider failed and the
	// mock embedder should be used instead.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	ErrMalformedContent     = errors.New("malformed generated content")

	ErrCacheMiss = errors.New("cache miss")
)
