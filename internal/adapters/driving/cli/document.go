package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contentrag/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	documentLimit int
	documentJSON  bool
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc", "docs"},
	Short:   "Manage ingested documents",
	Long:    `List, view or delete ingested documents and their chunks.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the newest documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id...]",
	Short: "Delete documents",
	Long:  `Deletes each document together with its chunks and archived file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentListCmd.Flags().IntVarP(&documentLimit, "limit", "n", 50, "maximum number of documents")
	for _, c := range []*cobra.Command{documentListCmd, documentGetCmd} {
		c.Flags().BoolVar(&documentJSON, "json", false, "output as JSON")
	}
	documentCmd.AddCommand(documentListCmd, documentGetCmd, documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func documents() (driving.DocumentService, error) {
	if documentService == nil {
		return nil, errors.New("document service not configured")
	}
	return documentService, nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	svc, err := documents()
	if err != nil {
		return err
	}
	docs, err := svc.List(cmd.Context(), documentLimit)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	switch {
	case documentJSON:
		return printJSON(cmd, docs)
	case len(docs) == 0:
		cmd.Println("No documents found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tCHUNKS\tCREATED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.SourceName, d.MIMEType, d.ChunkCount, d.CreatedAt.Format(timeLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	svc, err := documents()
	if err != nil {
		return err
	}
	d, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if documentJSON {
		return printJSON(cmd, d)
	}

	cmd.Printf("Document: %s\n\n", d.ID)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "  Name:\t%s\n", d.SourceName)
	fmt.Fprintf(tw, "  Type:\t%s\n", d.MIMEType)
	fmt.Fprintf(tw, "  Size:\t%d bytes\n", d.Size)
	fmt.Fprintf(tw, "  Chunks:\t%d\n", d.ChunkCount)
	if d.BlobLocation != "" {
		fmt.Fprintf(tw, "  Archived:\t%s\n", d.BlobLocation)
	}
	fmt.Fprintf(tw, "  Created:\t%s\n", d.CreatedAt.Format(timeLayout))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(d.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for _, k := range slices.Sorted(maps.Keys(d.Metadata)) {
			cmd.Printf("    %s: %v\n", k, d.Metadata[k])
		}
	}
	if len(d.Embeddings) > 0 {
		cmd.Println("\n  Chunks:")
		for _, e := range d.Embeddings {
			cmd.Printf("    [%d] %s\n", e.ChunkIndex, truncate(e.Text, 80))
		}
	}
	return nil
}

// runDocumentDelete attempts every id and reports all failures together.
func runDocumentDelete(cmd *cobra.Command, args []string) error {
	svc, err := documents()
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range args {
		if err := svc.Delete(cmd.Context(), id); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete document %s: %w", id, err))
			continue
		}
		cmd.Printf("Document %s deleted.\n", id)
	}
	return errors.Join(errs...)
}
