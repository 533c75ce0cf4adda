// Package cli provides the contentrag command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	apihttp "github.com/custodia-labs/contentrag/internal/adapters/driving/http"
	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
	"github.com/custodia-labs/contentrag/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose bool
	logJSON bool
)

var (
	ingestionService  driving.IngestionService
	searchService     driving.SearchService
	generationService driving.GenerationService
	insightsService   driving.InsightsService
	documentService   driving.DocumentService
	settingsService   driving.SettingsService
	apiMetrics        apihttp.Metrics
	apiStatus         apihttp.Status
)

// Services holds the driving ports the commands operate on.
type Services struct {
	Ingestion  driving.IngestionService
	Search     driving.SearchService
	Generation driving.GenerationService
	Insights   driving.InsightsService
	Document   driving.DocumentService
	Settings   driving.SettingsService

	// Metrics and Status are passed to the HTTP API started by serve.
	Metrics apihttp.Metrics
	Status  apihttp.Status
}

var rootCmd = &cobra.Command{
	Use:   "contentrag",
	Short: "Context-aware website content generation",
	Long: `contentrag ingests reference documents and company profiles, embeds them,
and uses similarity search over that corpus to ground generated website content.

Ingest material with 'contentrag ingest', store companies with
'contentrag profile add', then run 'contentrag generate'. The same pipeline
is available over HTTP ('contentrag serve') and MCP ('contentrag mcp serve').`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetJSON(logJSON)
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write log lines as JSON")
}

// SetServices injects the services used by all commands.
func SetServices(s Services) {
	ingestionService = s.Ingestion
	searchService = s.Search
	generationService = s.Generation
	insightsService = s.Insights
	documentService = s.Document
	settingsService = s.Settings
	apiMetrics = s.Metrics
	apiStatus = s.Status
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
