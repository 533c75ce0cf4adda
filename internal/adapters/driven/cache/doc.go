// Package cache holds driven.EmbeddingCache implementations.
//
// The lru subpackage keeps vectors in process memory with a size bound and TTL.
// The redis subpackage shares them across processes.
package cache
