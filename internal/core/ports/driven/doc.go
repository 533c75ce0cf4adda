// Package driven holds the outbound ports: everything the core services
// call into. Adapters under internal/adapters/driven, internal/normalisers
// and internal/postprocessors implement them.
//
// Always wired: EmbeddingService (the mock embedder stands in when no
// provider is configured), VectorStore, NormaliserRegistry,
// PostProcessorPipeline and ConfigStore.
//
// May be nil, and the services cope:
//
//   - LLMService: generation falls back to the template content
//   - BlobStore: uploads are not archived
//   - EmbeddingCache: every text is embedded afresh
//   - PromptStore: built-in prompts are used
//   - Metrics: nothing is recorded
//
// This package imports domain and nothing else from the module.
package driven
