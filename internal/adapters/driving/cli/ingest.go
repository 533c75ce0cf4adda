package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contentrag/internal/core/domain"
)

var (
	ingestMeta map[string]string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest reference material",
	Long:  `Chunk, embed and store text or files so they can be retrieved as context.`,
}

var ingestTextCmd = &cobra.Command{
	Use:   "text [name] [text]",
	Short: "Ingest a text snippet",
	Long: `Ingest text as a named document. When the text argument is omitted
it is read from standard input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runIngestText,
}

var ingestFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Ingest a file",
	Long: `Archive a file, extract its text and ingest it.

The content type is inferred from the extension. Plain text, markdown,
JSON and XHTML are extracted; other types are read as UTF-8 when valid.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngestFile,
}

func init() {
	for _, c := range []*cobra.Command{ingestTextCmd, ingestFileCmd} {
		c.Flags().StringToStringVarP(&ingestMeta, "meta", "m", nil, "metadata key=value pairs")
		c.Flags().BoolVar(&ingestJSON, "json", false, "output result as JSON")
		ingestCmd.AddCommand(c)
	}
	rootCmd.AddCommand(ingestCmd)
}

func runIngestText(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	var text string
	if len(args) == 2 {
		text = args[1]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	result, err := ingestionService.IngestText(cmd.Context(), args[0], text, metadataFromFlags())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return outputIngestResult(cmd, args[0], result)
}

func runIngestFile(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("ingestion service not configured")
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	name := filepath.Base(path)
	result, err := ingestionService.IngestFile(cmd.Context(), domain.RawFile{
		Name:     name,
		MIMEType: detectMIME(name),
		Content:  content,
	}, metadataFromFlags())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return outputIngestResult(cmd, name, result)
}

func metadataFromFlags() map[string]any {
	if len(ingestMeta) == 0 {
		return nil
	}
	meta := make(map[string]any, len(ingestMeta))
	for k, v := range ingestMeta {
		meta[k] = v
	}
	return meta
}

func outputIngestResult(cmd *cobra.Command, name string, result *domain.IngestResult) error {
	if ingestJSON {
		return printJSON(cmd, result)
	}
	cmd.Printf("Ingested %s\n", name)
	cmd.Printf("  Document: %s\n", result.DocumentID)
	cmd.Printf("  Chunks:   %d\n", result.ChunkCount)
	cmd.Printf("  Length:   %d characters\n", result.TextLength)
	if result.BlobLocation != "" {
		cmd.Printf("  Archived: %s\n", result.BlobLocation)
	}
	return nil
}
