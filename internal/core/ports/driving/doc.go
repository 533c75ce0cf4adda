// Package driving holds the inbound ports: the use cases the CLI, the HTTP
// API and the MCP server invoke. internal/core/services implements them.
package driving
