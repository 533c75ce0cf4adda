package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	apihttp "github.com/custodia-labs/contentrag/internal/adapters/driving/http"
)

var (
	serveAddr      string
	serveMaxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP API under /api/vector.

Endpoints cover search, company profiles, content generation, document
ingestion and upload, document management and industry insights.
Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", apihttp.DefaultAddr, "listen address")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", apihttp.DefaultMaxUploadSize, "maximum upload size in bytes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil || ingestionService == nil {
		return errors.New("search and ingestion services not configured")
	}

	server, err := apihttp.NewServer(&apihttp.Ports{
		Search:     searchService,
		Ingestion:  ingestionService,
		Generation: generationService,
		Insights:   insightsService,
		Document:   documentService,
	}, apihttp.Config{
		Addr:          serveAddr,
		MaxUploadSize: serveMaxUpload,
		Metrics:       apiMetrics,
		Status:        apiStatus,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	cmd.Printf("API listening on %s\n", serveAddr)
	return server.Run(cmd.Context())
}
