package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

var (
	searchLimit     int
	searchThreshold float64
	searchScope     string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested content",
	Long: `Embeds the query and ranks recent records by cosine similarity.

By default document chunks are searched. Use --scope profiles to search
stored company profiles instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", domain.DefaultSearchThreshold,
		"minimum cosine similarity")
	searchCmd.Flags().StringVar(&searchScope, "scope", string(domain.CollectionEmbeddings),
		"collection to search (embeddings or profiles)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:     searchLimit,
		Threshold: domain.Threshold(searchThreshold),
		Scope:     domain.Collection(searchScope),
	}

	results, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SimilarityResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		label := results[i].ID
		if name := results[i].Attributes[domain.AttrBusinessName]; name != "" {
			label = name
		}
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, label, results[i].Score)
		if results[i].DocumentID != "" {
			cmd.Printf("      Document: %s, chunk %d\n", results[i].DocumentID, results[i].ChunkIndex)
		}
		if results[i].Text != "" {
			cmd.Printf("      %s\n", truncate(results[i].Text, 160))
		}
		cmd.Println()
	}
	return nil
}
