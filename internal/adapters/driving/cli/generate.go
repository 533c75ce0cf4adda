package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	generateTemplate string
	generateJSON     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [profile-file]",
	Short: "Generate website content for a company profile",
	Long: `Generate website content using comparable companies and ingested documents
as context. The profile and its content are stored for future generations.

When no language model is configured, or it returns unusable output, a
deterministic template built from the profile is used instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "website template name (default: the profile's, else modern)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generationService == nil {
		return errors.New("generation service not configured")
	}

	profile, err := loadProfile(args[0])
	if err != nil {
		return err
	}

	result, err := generationService.Generate(cmd.Context(), profile, generateTemplate)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if generateJSON {
		return printJSON(cmd, result)
	}

	c := &result.Content
	cmd.Printf("%s\n", c.Hero.Headline)
	cmd.Printf("%s\n", c.Hero.Subheadline)
	cmd.Printf("[%s]\n\n", c.Hero.CTAText)

	cmd.Println("About")
	cmd.Printf("  %s\n", c.About.Content)
	for _, h := range c.About.Highlights {
		cmd.Printf("  - %s\n", h)
	}

	cmd.Printf("\n%s\n", c.Services.Title)
	for _, item := range c.Services.Items {
		cmd.Printf("  %s: %s\n", item.Name, item.Description)
	}

	cmd.Printf("\n%s\n", c.Contact.Title)
	cmd.Printf("  %s\n", c.Contact.Description)
	cmd.Printf("  %s | %s\n", c.Contact.Email, c.Contact.Phone)

	cmd.Println()
	cmd.Printf("Profile:   %s\n", result.ProfileID)
	cmd.Printf("Context:   %d similar profiles, %d documents\n", result.SimilarProfiles, result.RelevantDocuments)
	if result.Fallback {
		cmd.Println("Note: generated from the fallback template")
	}
	return nil
}
