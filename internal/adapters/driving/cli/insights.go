package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

var insightsJSON bool

var insightsCmd = &cobra.Command{
	Use:   "insights [industry]",
	Short: "Show statistics for an industry",
	Long: `Show the most common services, templates and business types among the
stored profiles of an industry. Results are cached for an hour.`,
	Args: cobra.ExactArgs(1),
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	if insightsService == nil {
		return errors.New("insights service not configured")
	}

	insights, err := insightsService.GetInsights(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get insights: %w", err)
	}

	if insightsJSON {
		return printJSON(cmd, insights)
	}

	cmd.Printf("Industry: %s\n", insights.Industry)
	cmd.Printf("Companies: %d\n", insights.TotalCompanies)
	if insights.TotalCompanies == 0 {
		return nil
	}

	printRanked(cmd, "Top services", insights.TopServices)
	printRanked(cmd, "Popular templates", insights.PopularTemplates)
	printRanked(cmd, "Business types", insights.BusinessTypes)

	if !insights.ComputedAt.IsZero() {
		cmd.Printf("\nComputed at %s\n", insights.ComputedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func printRanked(cmd *cobra.Command, title string, counts []domain.RankedCount) {
	if len(counts) == 0 {
		return
	}
	cmd.Printf("\n%s:\n", title)
	for _, c := range counts {
		cmd.Printf("  %-30s %d\n", c.Value, c.Count)
	}
}
