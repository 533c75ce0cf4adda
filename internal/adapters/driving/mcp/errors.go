// Package mcp provides an MCP (Model Context Protocol) server adapter for contentrag.
// It lets AI assistants search the knowledge base, read documents and
// generate website content for a company profile.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// errServiceUnavailable is returned by tools whose optional port was not wired.
var errServiceUnavailable = errors.New("mcp: service not configured")
