package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

var (
	profileLimit        int
	similarLimit        int
	profileIndustry     string
	profileBusinessType string
	profileJSON         bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage company profiles",
	Long: `Store company profiles and find comparable companies.

Profile files are YAML or JSON with the fields businessName, industry,
businessType, targetAudience, businessDescription, keyServices and template.`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Store a company profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAdd,
}

var profileSimilarCmd = &cobra.Command{
	Use:   "similar [file]",
	Short: "Find stored companies similar to a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSimilar,
}

var profileSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored companies",
	Long: `List the newest stored companies, optionally filtered by industry and
business type. With a query the companies are ranked by similarity.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfileSearch,
}

func init() {
	profileSimilarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 3, "maximum number of companies")
	profileSimilarCmd.Flags().BoolVar(&profileJSON, "json", false, "output results as JSON")

	profileSearchCmd.Flags().IntVarP(&profileLimit, "limit", "n", 10, "maximum number of companies")
	profileSearchCmd.Flags().StringVar(&profileIndustry, "industry", "", "only companies in this industry")
	profileSearchCmd.Flags().StringVar(&profileBusinessType, "type", "", "only companies of this business type")
	profileSearchCmd.Flags().BoolVar(&profileJSON, "json", false, "output results as JSON")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileSimilarCmd)
	profileCmd.AddCommand(profileSearchCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	profile, err := loadProfile(args[0])
	if err != nil {
		return err
	}

	id, err := ingestionService.StoreProfile(cmd.Context(), profile)
	if err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}

	cmd.Printf("Stored profile for %s: %s\n", profile.BusinessName, id)
	return nil
}

func runProfileSimilar(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	profile, err := loadProfile(args[0])
	if err != nil {
		return err
	}
	if profile.Industry == "" {
		return fmt.Errorf("profile industry is required: %w", domain.ErrInvalidInput)
	}

	results, err := searchService.FindSimilarProfiles(cmd.Context(), profile, similarLimit)
	if err != nil {
		return fmt.Errorf("similar profile search failed: %w", err)
	}

	if profileJSON {
		return printJSON(cmd, results)
	}
	if len(results) == 0 {
		cmd.Println("No similar companies found.")
		return nil
	}

	cmd.Printf("Companies similar to %s:\n\n", profile.BusinessName)
	for i := range results {
		attrs := results[i].Attributes
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, attrs[domain.AttrBusinessName], results[i].Score)
		cmd.Printf("      %s / %s\n", attrs[domain.AttrIndustry], attrs[domain.AttrBusinessType])
	}
	return nil
}

func runProfileSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	var query string
	if len(args) == 1 {
		query = args[0]
	}

	matches, err := searchService.SearchCompanies(cmd.Context(), query, domain.CompanyFilter{
		Industry:     profileIndustry,
		BusinessType: profileBusinessType,
		Limit:        profileLimit,
	})
	if err != nil {
		return fmt.Errorf("company search failed: %w", err)
	}

	if profileJSON {
		return printJSON(cmd, matches)
	}
	if len(matches) == 0 {
		cmd.Println("No companies found.")
		return nil
	}

	for i := range matches {
		m := &matches[i]
		if query != "" {
			cmd.Printf("  %s (%.2f)\n", m.BusinessName, m.Similarity)
		} else {
			cmd.Printf("  %s\n", m.BusinessName)
		}
		cmd.Printf("    ID:       %s\n", m.ID)
		cmd.Printf("    Industry: %s\n", m.Industry)
		if m.BusinessType != "" {
			cmd.Printf("    Type:     %s\n", m.BusinessType)
		}
		cmd.Printf("    Created:  %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("\nTotal: %d companies\n", len(matches))
	return nil
}
